package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dycw/hooksmith/internal/format"
)

// syncChecker keeps a file byte-identical with its remote template. An
// out-of-sync file is rewritten from the remote and still reported as a
// failure, so the rewrite lands in the next commit.
type syncChecker struct {
	file string
}

func (c syncChecker) Name() string { return c.file }

func (c syncChecker) Check(ctx *Context) error {
	remoteText, err := ctx.Client.Fetch(c.file)
	if err != nil {
		return err
	}
	localPath := filepath.Join(ctx.Root, filepath.FromSlash(c.file))
	local, err := os.ReadFile(localPath)
	if errors.Is(err, os.ErrNotExist) {
		if err := writeLocal(localPath, remoteText); err != nil {
			return err
		}
		return fmt.Errorf("%s did not exist; created from remote", c.file)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.file, err)
	}
	if string(local) == remoteText {
		return nil
	}
	if err := writeLocal(localPath, remoteText); err != nil {
		return err
	}
	return fmt.Errorf("%s was out of sync; rewrote from remote\n%s", c.file, format.Diff(string(local), remoteText))
}

func writeLocal(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// gitignoreChecker requires each blank-line-separated group of .gitignore
// entries to be sorted.
type gitignoreChecker struct{}

func (gitignoreChecker) Name() string { return ".gitignore" }

func (gitignoreChecker) Check(ctx *Context) error {
	data, err := os.ReadFile(filepath.Join(ctx.Root, ".gitignore"))
	if err != nil {
		return fmt.Errorf("reading .gitignore: %w", err)
	}
	lines := strings.Split(strings.Trim(string(data), "\n"), "\n")
	for _, group := range gitignoreGroups(lines) {
		if !sort.StringsAreSorted(group) {
			want := append([]string(nil), group...)
			sort.Strings(want)
			return fmt.Errorf(".gitignore: group should be sorted as: %s", strings.Join(want, ", "))
		}
	}
	return nil
}

func gitignoreGroups(lines []string) [][]string {
	var groups [][]string
	var current []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// preCommitConfigChecker validates the repos configured in
// .pre-commit-config.yaml. Repos not present in the config are skipped;
// present ones must enable the expected hooks with the expected fields.
type preCommitConfigChecker struct{}

func (preCommitConfigChecker) Name() string { return ".pre-commit-config.yaml" }

func (preCommitConfigChecker) Check(ctx *Context) error {
	repos, err := preCommitRepos(ctx.Root)
	if err != nil {
		return err
	}
	for _, check := range preCommitChecks() {
		if err := check.run(ctx, repos); err != nil {
			return err
		}
	}
	return nil
}

// repoCheck describes what one repo in .pre-commit-config.yaml must look
// like when it is configured.
type repoCheck struct {
	url          string
	enabledHooks []string
	hookArgs     map[string][]string
	depsHook     string
	deps         func(*Context) ([]string, error)
	configCheck  func(*Context) error
}

func preCommitChecks() []repoCheck {
	return []repoCheck{
		{
			url: "https://github.com/myint/autoflake",
			hookArgs: map[string][]string{
				"autoflake": {
					"--in-place",
					"--remove-all-unused-imports",
					"--remove-duplicate-keys",
					"--remove-unused-variables",
				},
			},
		},
		{
			url:         "https://github.com/psf/black",
			configCheck: checkBlack,
		},
		{
			url:      "https://github.com/PyCQA/flake8",
			depsHook: "flake8",
			deps:     flake8Extensions,
			configCheck: func(ctx *Context) error {
				return syncChecker{file: ".flake8"}.Check(ctx)
			},
		},
		{
			url:         "https://github.com/pre-commit/mirrors-isort",
			configCheck: checkIsort,
		},
		{
			url:          "https://github.com/pre-commit/pre-commit",
			enabledHooks: []string{"validate_manifest"},
		},
		{
			url: "https://github.com/jumanjihouse/pre-commit-hooks",
			enabledHooks: []string{
				"script-must-have-extension",
				"script-must-not-have-extension",
			},
		},
		{
			url: "https://github.com/pre-commit/pre-commit-hooks",
			enabledHooks: []string{
				"check-case-conflict",
				"check-executables-have-shebangs",
				"check-merge-conflict",
				"check-symlinks",
				"check-vcs-permalinks",
				"destroyed-symlinks",
				"detect-private-key",
				"end-of-file-fixer",
				"fix-byte-order-marker",
				"mixed-line-ending",
				"no-commit-to-branch",
				"trailing-whitespace",
			},
			hookArgs: map[string][]string{
				"mixed-line-ending": {"--fix=lf"},
			},
		},
		{
			url: "https://github.com/a-ibs/pre-commit-mirrors-elm-format",
			hookArgs: map[string][]string{
				"elmformat": {"--yes"},
			},
		},
		{
			url: "https://github.com/asottile/pyupgrade",
			hookArgs: map[string][]string{
				"pyupgrade": {"--py39-plus"},
			},
		},
		{
			url:      "https://github.com/asottile/yesqa",
			depsHook: "yesqa",
			deps:     flake8Extensions,
		},
		{
			url:          "meta",
			enabledHooks: []string{"check-useless-excludes"},
		},
	}
}

func (rc repoCheck) run(ctx *Context, repos map[string]map[string]any) error {
	repo, ok := repos[rc.url]
	if !ok {
		return nil
	}
	hooks, err := repoHooks(rc.url, repo)
	if err != nil {
		return err
	}
	if rc.enabledHooks != nil {
		if err := CheckValues(rc.url+": hooks", hookIDs(hooks), rc.enabledHooks); err != nil {
			return err
		}
	}
	for _, hook := range sortedKeys(rc.hookArgs) {
		if err := checkHookField(rc.url, hooks, hook, "args", rc.hookArgs[hook]); err != nil {
			return err
		}
	}
	if rc.deps != nil {
		want, err := rc.deps(ctx)
		if err != nil {
			return err
		}
		if err := checkHookField(rc.url, hooks, rc.depsHook, "additional_dependencies", want); err != nil {
			return err
		}
	}
	if rc.configCheck != nil {
		return rc.configCheck(ctx)
	}
	return nil
}

func checkHookField(url string, hooks map[string]map[string]any, hook, field string, want []string) error {
	entry, ok := hooks[hook]
	if !ok {
		return fmt.Errorf("%s: hook %q not configured", url, hook)
	}
	value, ok := entry[field]
	if !ok {
		return fmt.Errorf("%s: hook %q is missing %s", url, hook, field)
	}
	return CheckValues(fmt.Sprintf("%s: %s.%s", url, hook, field), value, want)
}

func preCommitRepos(root string) (map[string]map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(root, ".pre-commit-config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading .pre-commit-config.yaml: %w", err)
	}
	var doc struct {
		Repos []map[string]any `yaml:"repos"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing .pre-commit-config.yaml: %w", err)
	}
	out := make(map[string]map[string]any, len(doc.Repos))
	for _, entry := range doc.Repos {
		url, ok := entry["repo"].(string)
		if !ok {
			return nil, errors.New(".pre-commit-config.yaml: repo entry without a repo url")
		}
		rest := make(map[string]any, len(entry))
		for k, v := range entry {
			if k != "repo" {
				rest[k] = v
			}
		}
		out[url] = rest
	}
	return out, nil
}

func repoHooks(url string, repo map[string]any) (map[string]map[string]any, error) {
	raw, ok := repo["hooks"].([]any)
	if !ok {
		return nil, fmt.Errorf("%s: missing hooks list", url)
	}
	out := make(map[string]map[string]any, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: malformed hook entry", url)
		}
		id, ok := entry["id"].(string)
		if !ok {
			return nil, fmt.Errorf("%s: hook entry without an id", url)
		}
		rest := make(map[string]any, len(entry))
		for k, v := range entry {
			if k != "id" {
				rest[k] = v
			}
		}
		out[id] = rest
	}
	return out, nil
}

func hookIDs(hooks map[string]map[string]any) []string {
	ids := make([]string, 0, len(hooks))
	for id := range hooks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flake8Extensions(ctx *Context) ([]string, error) {
	text, err := ctx.Client.Fetch("flake8-extensions")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func checkBlack(ctx *Context) error {
	tool, err := pyprojectTool(ctx.Root)
	if err != nil {
		return err
	}
	black, ok := subMap(tool, "black")
	if !ok {
		return errors.New("pyproject.toml: missing [tool.black] section")
	}
	expected := map[string]any{
		"line-length":               80,
		"skip-magic-trailing-comma": true,
		"target-version":            []any{"py38"},
	}
	return CheckValues("[tool.black]", black, expected)
}

func checkIsort(ctx *Context) error {
	tool, err := pyprojectTool(ctx.Root)
	if err != nil {
		return err
	}
	isort, ok := subMap(tool, "isort")
	if !ok {
		return errors.New("pyproject.toml: missing [tool.isort] section")
	}
	expected := map[string]any{
		"atomic":                   true,
		"force_single_line":        true,
		"line_length":              80,
		"lines_after_imports":      2,
		"profile":                  "black",
		"remove_redundant_aliases": true,
		"skip_gitignore":           true,
		"src_paths":                []any{"src"},
		"virtual_env":              ".venv/bin/python",
	}
	return CheckValues("[tool.isort]", isort, expected)
}

// workflowChecker compares a GitHub workflow against the remote template
// structurally: the name, the trigger clause and the selected jobs must
// match, while formatting and extra keys may differ.
type workflowChecker struct {
	file      string
	mandatory []string
	optional  []string
}

func (c workflowChecker) Name() string { return c.file }

func (c workflowChecker) Check(ctx *Context) error {
	base := filepath.Base(c.file)
	data, err := os.ReadFile(filepath.Join(ctx.Root, filepath.FromSlash(c.file)))
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.file, err)
	}
	var local map[string]any
	if err := yaml.Unmarshal(data, &local); err != nil {
		return fmt.Errorf("parsing %s: %w", c.file, err)
	}
	remoteText, err := ctx.Client.Fetch(c.file)
	if err != nil {
		return err
	}
	var remote map[string]any
	if err := yaml.Unmarshal([]byte(remoteText), &remote); err != nil {
		return fmt.Errorf("parsing remote %s: %w", c.file, err)
	}

	if err := CheckValues(base+": name", local["name"], remote["name"]); err != nil {
		return err
	}
	if err := CheckValues(base+": on", local["on"], remote["on"]); err != nil {
		return err
	}

	localJobs, ok := subMap(local, "jobs")
	if !ok {
		return fmt.Errorf("%s: missing jobs section", base)
	}
	remoteJobs, ok := subMap(remote, "jobs")
	if !ok {
		return fmt.Errorf("remote %s: missing jobs section", base)
	}

	jobs := append([]string(nil), c.mandatory...)
	for _, job := range c.optional {
		if _, ok := localJobs[job]; ok {
			jobs = append(jobs, job)
		}
	}
	for _, job := range jobs {
		localJob, ok := localJobs[job]
		if !ok {
			return fmt.Errorf("%s: missing job %q", base, job)
		}
		remoteJob, ok := remoteJobs[job]
		if !ok {
			return fmt.Errorf("remote %s: missing job %q", base, job)
		}
		if err := CheckValues(base+": jobs."+job, localJob, remoteJob); err != nil {
			return err
		}
	}
	return nil
}

// pyprojectChecker validates [tool.pytest.ini_options] for repos that
// declare pytest as a poetry dependency. The expected settings grow with
// the repo: a src layout adds testpaths, pytest-xdist adds
// looponfailroots and pytest-instafail adds --instafail.
type pyprojectChecker struct{}

func (pyprojectChecker) Name() string { return "pyproject.toml" }

func (pyprojectChecker) Check(ctx *Context) error {
	tool, err := pyprojectTool(ctx.Root)
	if err != nil {
		return err
	}
	if !isDependency(tool, "pytest") {
		return nil
	}
	pytest, ok := subMap(tool, "pytest")
	if !ok {
		return errors.New("pyproject.toml: missing [tool.pytest] section")
	}
	iniOptions, ok := subMap(pytest, "ini_options")
	if !ok {
		return errors.New("pyproject.toml: missing [tool.pytest.ini_options] section")
	}

	addopts := []any{"-q", "-rsxX", "--color=yes", "--strict-markers"}
	if isDependency(tool, "pytest-instafail") {
		addopts = append(addopts, "--instafail")
	}
	expected := map[string]any{
		"addopts":             addopts,
		"minversion":          6.0,
		"xfail_strict":        true,
		"log_level":           "WARNING",
		"log_cli_date_format": "%Y-%m-%d %H:%M:%S",
		"log_cli_format":      "[%(asctime)s.%(msecs)03d] [%(levelno)d] [%(name)s:%(funcName)s] [%(process)d]\n%(msg)s",
		"log_cli_level":       "WARNING",
	}
	if fi, err := os.Stat(filepath.Join(ctx.Root, "src")); err == nil && fi.IsDir() {
		expected["testpaths"] = []any{"src/tests"}
		if isDependency(tool, "pytest-xdist") {
			expected["looponfailroots"] = []any{"src"}
		}
	}
	return CheckValues("[tool.pytest.ini_options]", iniOptions, expected)
}

// pyrightChecker validates pyrightconfig.json for the src layout.
type pyrightChecker struct{}

func (pyrightChecker) Name() string { return "pyrightconfig.json" }

func (pyrightChecker) Check(ctx *Context) error {
	data, err := os.ReadFile(filepath.Join(ctx.Root, "pyrightconfig.json"))
	if err != nil {
		return fmt.Errorf("reading pyrightconfig.json: %w", err)
	}
	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing pyrightconfig.json: %w", err)
	}
	expected := map[string]any{
		"include":  []any{"src"},
		"venvPath": ".venv",
		"executionEnvironments": []any{
			map[string]any{"root": "src"},
		},
	}
	return CheckValues("pyrightconfig.json", cfg, expected)
}

func pyprojectTool(root string) (map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return nil, fmt.Errorf("reading pyproject.toml: %w", err)
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing pyproject.toml: %w", err)
	}
	tool, ok := subMap(doc, "tool")
	if !ok {
		return nil, errors.New("pyproject.toml: missing [tool] section")
	}
	return tool, nil
}

func isDependency(tool map[string]any, pkg string) bool {
	poetry, ok := subMap(tool, "poetry")
	if !ok {
		return false
	}
	for _, section := range []string{"dependencies", "dev-dependencies"} {
		if deps, ok := subMap(poetry, section); ok {
			if _, ok := deps[pkg]; ok {
				return true
			}
		}
	}
	return false
}

func subMap(m map[string]any, key string) (map[string]any, bool) {
	sub, ok := m[key].(map[string]any)
	return sub, ok
}
