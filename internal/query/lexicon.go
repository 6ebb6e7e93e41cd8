package query

// Language aliases map normalized tokens to a canonical language name.
// Matching is token-based so "java" never fires inside "javascript".
var languageAliases = map[string]string{
	"python":     "python",
	"py":         "python",
	"javascript": "javascript",
	"js":         "javascript",
	"node":       "javascript",
	"nodejs":     "javascript",
	"typescript": "typescript",
	"ts":         "typescript",
	"java":       "java",
	"go":         "go",
	"golang":     "go",
	"rust":       "rust",
	"ruby":       "ruby",
	"php":        "php",
	"kotlin":     "kotlin",
	"swift":      "swift",
	"scala":      "scala",
	"cpp":        "c++",
	"csharp":     "c#",
}

var frameworkAliases = map[string]string{
	"react":      "react",
	"reactjs":    "react",
	"vue":        "vue",
	"angular":    "angular",
	"express":    "express",
	"expressjs":  "express",
	"django":     "django",
	"flask":      "flask",
	"fastapi":    "fastapi",
	"spring":     "spring",
	"rails":      "rails",
	"laravel":    "laravel",
	"gin":        "gin",
	"nextjs":     "nextjs",
	"docker":     "docker",
	"kubernetes": "kubernetes",
	"k8s":        "kubernetes",
	"terraform":  "terraform",
	"pytorch":    "pytorch",
	"tensorflow": "tensorflow",
}

var stopWords = map[string]bool{
	"how": true, "can": true, "to": true, "the": true, "a": true,
	"an": true, "show": true, "me": true, "what": true, "is": true,
	"i": true, "do": true, "does": true, "in": true, "of": true,
	"for": true, "with": true, "on": true, "my": true, "use": true,
	"using": true, "and": true, "or": true, "please": true,
}

var beginnerWords = map[string]bool{
	"simple": true, "beginner": true, "intro": true, "basic": true,
	"basics": true, "easy": true, "starter": true,
}

var advancedWords = map[string]bool{
	"advanced": true, "optimization": true, "optimize": true,
	"performance": true, "internals": true, "complex": true,
}
