// Package normalize canonicalizes technology names, dates and free text in resume data.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/resume-structurer/internal/types"
)

// technologyAliases maps lower-cased variants to canonical technology names.
var technologyAliases = map[string]string{
	// Languages
	"python3":    "Python",
	"python2":    "Python",
	"py":         "Python",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"c++":        "C++",
	"cpp":        "C++",
	"c#":         "C#",
	"csharp":     "C#",
	"golang":     "Go",
	"go lang":    "Go",
	"go":         "Go",
	"rust":       "Rust",
	"java":       "Java",
	"kotlin":     "Kotlin",
	"swift":      "Swift",
	"ruby":       "Ruby",
	"php":        "PHP",
	"r":          "R",
	"matlab":     "MATLAB",
	"scala":      "Scala",
	"perl":       "Perl",
	"shell":      "Shell",
	"bash":       "Bash",
	"powershell": "PowerShell",
	"sql":        "SQL",
	"html":       "HTML",
	"css":        "CSS",
	"sass":       "Sass",
	"scss":       "SCSS",
	"less":       "LESS",

	// Frontend
	"react":     "React",
	"react.js":  "React",
	"reactjs":   "React",
	"react js":  "React",
	"vue":       "Vue.js",
	"vue.js":    "Vue.js",
	"vuejs":     "Vue.js",
	"angular":   "Angular",
	"angularjs": "Angular",
	"svelte":    "Svelte",
	"next":      "Next.js",
	"next.js":   "Next.js",
	"nextjs":    "Next.js",
	"nuxt":      "Nuxt.js",
	"nuxt.js":   "Nuxt.js",
	"gatsby":    "Gatsby",

	// Backend
	"node":          "Node.js",
	"node.js":       "Node.js",
	"nodejs":        "Node.js",
	"express":       "Express.js",
	"express.js":    "Express.js",
	"expressjs":     "Express.js",
	"fastapi":       "FastAPI",
	"flask":         "Flask",
	"django":        "Django",
	"spring":        "Spring",
	"spring boot":   "Spring Boot",
	"rails":         "Ruby on Rails",
	"ruby on rails": "Ruby on Rails",
	"laravel":       "Laravel",
	"asp.net":       "ASP.NET",
	"aspnet":        "ASP.NET",

	// Databases
	"postgres":      "PostgreSQL",
	"postgresql":    "PostgreSQL",
	"mysql":         "MySQL",
	"mariadb":       "MariaDB",
	"mongo":         "MongoDB",
	"mongodb":       "MongoDB",
	"redis":         "Redis",
	"sqlite":        "SQLite",
	"dynamodb":      "DynamoDB",
	"cassandra":     "Cassandra",
	"elasticsearch": "Elasticsearch",
	"neo4j":         "Neo4j",

	// Cloud and DevOps
	"aws":                 "AWS",
	"amazon web services": "AWS",
	"gcp":                 "Google Cloud Platform",
	"google cloud":        "Google Cloud Platform",
	"azure":               "Azure",
	"docker":              "Docker",
	"docker-compose":      "Docker Compose",
	"kubernetes":          "Kubernetes",
	"k8s":                 "Kubernetes",
	"terraform":           "Terraform",
	"ansible":             "Ansible",
	"jenkins":             "Jenkins",
	"circleci":            "CircleCI",
	"travis":              "Travis CI",
	"github actions":      "GitHub Actions",
	"gitlab ci":           "GitLab CI",

	// Tools
	"git":                "Git",
	"github":             "GitHub",
	"gitlab":             "GitLab",
	"bitbucket":          "Bitbucket",
	"vscode":             "VS Code",
	"visual studio code": "VS Code",
	"vim":                "Vim",
	"neovim":             "Neovim",
	"postman":            "Postman",
	"figma":              "Figma",
	"jira":               "Jira",
	"confluence":         "Confluence",
	"slack":              "Slack",
	"notion":             "Notion",

	// ML/AI
	"tensorflow":   "TensorFlow",
	"pytorch":      "PyTorch",
	"keras":        "Keras",
	"scikit-learn": "scikit-learn",
	"sklearn":      "scikit-learn",
	"pandas":       "Pandas",
	"numpy":        "NumPy",
	"matplotlib":   "Matplotlib",
	"opencv":       "OpenCV",
	"huggingface":  "Hugging Face",
	"langchain":    "LangChain",

	// Testing
	"jest":       "Jest",
	"mocha":      "Mocha",
	"pytest":     "pytest",
	"junit":      "JUnit",
	"cypress":    "Cypress",
	"selenium":   "Selenium",
	"playwright": "Playwright",
}

// KnownTechnologies returns the canonical names in the alias table, unordered.
func KnownTechnologies() []string {
	seen := make(map[string]bool, len(technologyAliases))
	var out []string
	for _, canonical := range technologyAliases {
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	return out
}

// Technology returns the canonical spelling of name. Unknown all-lowercase
// names are title-cased; mixed-case names are returned trimmed.
func Technology(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if canonical, ok := technologyAliases[lower]; ok {
		return canonical
	}
	if name == lower {
		return cases.Title(language.English).String(name)
	}
	return name
}

// Technologies normalizes every name and drops case-insensitive duplicates,
// keeping the first occurrence. Blank names are dropped.
func Technologies(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		tech := Technology(name)
		key := strings.ToLower(tech)
		if tech == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tech)
	}
	return out
}

// DeduplicateSkills normalizes every skill and keeps each one only in the
// first category it appears in, visiting languages, frameworks, databases,
// tools and other in that order.
func DeduplicateSkills(skills types.TechnicalSkills) types.TechnicalSkills {
	seen := make(map[string]bool)
	keep := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, skill := range in {
			tech := Technology(skill)
			key := strings.ToLower(tech)
			if tech == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, tech)
		}
		return out
	}

	var result types.TechnicalSkills
	result.Languages = keep(skills.Languages)
	result.FrameworksLibraries = keep(skills.FrameworksLibraries)
	result.Databases = keep(skills.Databases)
	result.ToolsPlatforms = keep(skills.ToolsPlatforms)
	result.Other = keep(skills.Other)
	return result
}
