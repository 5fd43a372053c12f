package rules

// Flags that toggle built-in rules.
const (
	FlagIncludeSaved  = "include-saved"
	FlagIncludeBuild  = "include-build"
	FlagExcludeEngine = "exclude-engine"
)

// DefaultIgnoreFile is the per-project ignore file name.
const DefaultIgnoreFile = ".backupignore"

// Options selects which built-in rules are active for a run.
type Options struct {
	// IncludeSaved keeps Saved/ (logs, autosaves) in the backup.
	IncludeSaved bool
	// IncludeBuild keeps Build/ in the backup.
	IncludeBuild bool
	// ExcludeEngine drops Engine/ directories, for sources that contain the engine.
	ExcludeEngine bool
	// IgnoreFile is the control file name at the project root. It is never
	// backed up. Defaults to DefaultIgnoreFile.
	IgnoreFile string
}

// Builtins returns the built-in rule table for opts. Each call returns a
// fresh slice; the table is configuration data, not shared state.
//
// Generated directories (DerivedDataCache, Intermediate, Binaries and IDE
// folders) match by name at any depth, so Plugins/Foo/Intermediate is pruned
// like Intermediate. Saved, Build and Engine are anchored at the project
// root; folders with those names under Content or Source are user data.
func Builtins(opts Options) []Rule {
	ignoreFile := opts.IgnoreFile
	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}

	dir := func(name string) Rule {
		return Rule{Pattern: name, Action: Exclude, Scope: ScopeDir, Origin: OriginBuiltin}
	}
	rootDir := func(name string) Rule {
		return Rule{Pattern: "/" + name, Action: Exclude, Scope: ScopeDir, Origin: OriginBuiltin}
	}
	file := func(pattern string) Rule {
		return Rule{Pattern: pattern, Action: Exclude, Scope: ScopeFile, Origin: OriginBuiltin}
	}

	saved := rootDir("Saved")
	saved.Flag = FlagIncludeSaved
	saved.Disabled = opts.IncludeSaved

	build := rootDir("Build")
	build.Flag = FlagIncludeBuild
	build.Disabled = opts.IncludeBuild

	engine := rootDir("Engine")
	engine.Flag = FlagExcludeEngine
	engine.Disabled = !opts.ExcludeEngine

	return []Rule{
		dir("DerivedDataCache"),
		dir("Intermediate"),
		dir("Binaries"),
		dir(".vs"),
		dir(".vscode"),
		dir(".idea"),
		saved,
		build,
		engine,
		file("*.VC.db"),
		file("*.VC.opendb"),
		file("/" + ignoreFile),
	}
}

// Allowlist returns the include rules that mark a path as recovery-critical.
// They only set Decision.Priority; they never restrict what is walked.
func Allowlist() []Rule {
	allow := func(pattern string, scope Scope) Rule {
		return Rule{Pattern: pattern, Action: Include, Scope: scope, Origin: OriginBuiltin}
	}
	return []Rule{
		allow("/Content/", ScopeAny),
		allow("/Config/", ScopeAny),
		allow("/Source/", ScopeAny),
		allow("/Plugins/", ScopeAny),
		allow("/.git/", ScopeAny),
		allow("*.uproject", ScopeFile),
		allow("*.uplugin", ScopeFile),
		allow("*.sln", ScopeFile),
		allow("*.code-workspace", ScopeFile),
		allow("*.xcworkspace", ScopeAny),
	}
}
