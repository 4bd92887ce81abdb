// Package structuring turns resume text and GitHub data into a validated
// canonical resume and decision log with a single model call.
package structuring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-structurer/internal/apperr"
	"github.com/jonathan/resume-structurer/internal/llm"
	"github.com/jonathan/resume-structurer/internal/logger"
	"github.com/jonathan/resume-structurer/internal/normalize"
	"github.com/jonathan/resume-structurer/internal/reconcile"
	"github.com/jonathan/resume-structurer/internal/recovery"
	"github.com/jonathan/resume-structurer/internal/schemas"
	"github.com/jonathan/resume-structurer/internal/types"
)

// NoSourceMessage is the message returned when neither resume text nor GitHub data is given.
const NoSourceMessage = "At least one data source (resume or GitHub) must be provided"

// Request is the input to Structure. ResumeText and GitHub are each
// optional, but at least one must be present.
type Request struct {
	ResumeText         string
	GitHub             *types.GitHubData
	CustomInstructions string
	Settings           *types.StructuringSettings
}

// Service runs the structuring pipeline against a model client.
type Service struct {
	client llm.Client
	gen    llm.GenerationConfig
}

// NewService creates a Service that calls client with gen.
func NewService(client llm.Client, gen llm.GenerationConfig) *Service {
	return &Service{client: client, gen: gen}
}

// Structure builds the prompts, invokes the model once, recovers and
// reconciles its JSON answer and validates the result. Preconditions are
// checked before the model is called.
func (s *Service) Structure(ctx context.Context, req Request) (*types.StructuredOutput, error) {
	settings, err := checkRequest(req)
	if err != nil {
		return nil, err
	}

	hasResume := strings.TrimSpace(req.ResumeText) != ""
	hasGitHub := req.GitHub != nil

	system := SystemPrompt()
	user := UserPrompt(req.ResumeText, req.GitHub, req.CustomInstructions, settings)

	logger.Ctx(ctx).Info().
		Str("model", s.gen.Model).
		Bool("has_resume", hasResume).
		Bool("has_github", hasGitHub).
		Int("prompt_chars", len(system)+len(user)).
		Msg("calling_llm")

	raw, err := s.client.Complete(ctx, system, user, s.gen)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("llm_api_error")
		var serviceErr *apperr.ExternalServiceError
		if errors.As(err, &serviceErr) {
			return nil, err
		}
		return nil, &apperr.ExternalServiceError{
			Service: apperr.ServiceLLM,
			Message: fmt.Sprintf("LLM API error: %v", err),
			Cause:   err,
		}
	}

	obj, err := recovery.Recover(raw)
	if err != nil {
		return nil, err
	}
	reconcile.Response(obj)

	out, err := schemas.Output(obj)
	if err != nil {
		return nil, err
	}

	resume := &out.StructuredResume
	normalize.Resume(resume)
	resume.Fill()
	pinSources(out, hasResume, hasGitHub)

	logger.Ctx(ctx).Info().
		Int("projects", len(resume.Projects)).
		Int("experience", len(resume.Experience)).
		Int("decisions", len(out.DecisionLog)).
		Msg("resume_structured")
	return out, nil
}

func checkRequest(req Request) (types.StructuringSettings, error) {
	if strings.TrimSpace(req.ResumeText) == "" && req.GitHub == nil {
		return types.StructuringSettings{}, &apperr.PreconditionError{Field: "sources", Message: NoSourceMessage}
	}

	if n := utf8.RuneCountInString(req.CustomInstructions); n > types.MaxCustomInstructions {
		return types.StructuringSettings{}, &apperr.PreconditionError{
			Field:   "custom_instructions",
			Message: fmt.Sprintf("custom instructions must be at most %d characters, got %d", types.MaxCustomInstructions, n),
		}
	}

	settings := types.DefaultStructuringSettings()
	if req.Settings != nil {
		settings = req.Settings.WithDefaults()
	}
	if err := settings.Validate(); err != nil {
		return types.StructuringSettings{}, &apperr.PreconditionError{Field: "settings", Message: err.Error()}
	}
	return settings, nil
}

// pinSources forces every project and decision source to the only evidence
// supplied when just one of resume and GitHub data was given.
func pinSources(out *types.StructuredOutput, hasResume, hasGitHub bool) {
	if hasResume == hasGitHub {
		return
	}
	only := types.SourceResume
	if hasGitHub {
		only = types.SourceGitHub
	}

	for i := range out.StructuredResume.Projects {
		p := &out.StructuredResume.Projects[i]
		if p.Source != only {
			logger.Debug().Str("project", p.Name).Str("from", p.Source).Str("to", only).Msg("project_source_pinned")
			p.Source = only
		}
	}
	for i := range out.DecisionLog {
		out.DecisionLog[i].Source = only
	}
}
