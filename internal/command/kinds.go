package command

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Validator checks a single configuration value.
type Validator func(value string) error

// FieldInfo describes one configuration field of a kind, for editors and
// for validation.
type FieldInfo struct {
	Key         string
	Label       string
	Description string
	Required    bool
	MaxLen      int
	Validators  []Validator
}

// Constructor builds a command of a kind from its descriptor and config.
type Constructor func(d *Descriptor, cfg Config, deps Deps) (Command, error)

// KindInfo is the static entry describing a kind.
type KindInfo struct {
	Kind   Kind
	Title  string
	Fields []FieldInfo
	New    Constructor
}

// Field returns the field with key.
func (k KindInfo) Field(key string) (FieldInfo, bool) {
	for _, f := range k.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// Validate checks cfg against every field and reports all problems at once.
// Keys not described by the kind are rejected.
func (k KindInfo) Validate(cfg Config) error {
	var errs []error
	for _, f := range k.Fields {
		v := cfg[f.Key]
		if strings.TrimSpace(v) == "" {
			if f.Required {
				errs = append(errs, fmt.Errorf("%s: value is required", f.Key))
			}
			continue
		}
		if f.MaxLen > 0 && utf8.RuneCountInString(v) > f.MaxLen {
			errs = append(errs, fmt.Errorf("%s: longer than %d characters", f.Key, f.MaxLen))
		}
		for _, validate := range f.Validators {
			if err := validate(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", f.Key, err))
			}
		}
	}
	for key := range cfg {
		if _, ok := k.Field(key); !ok {
			errs = append(errs, fmt.Errorf("%s: unknown field for kind %s", key, k.Kind))
		}
	}
	return errors.Join(errs...)
}

var (
	kindsMu sync.RWMutex
	kinds   = map[Kind]KindInfo{}
)

// RegisterKind adds a kind to the table. Registering a kind twice fails.
func RegisterKind(info KindInfo) error {
	if info.Kind == "" || info.New == nil {
		return fmt.Errorf("register kind: kind and constructor are required")
	}
	kindsMu.Lock()
	defer kindsMu.Unlock()
	if _, dup := kinds[info.Kind]; dup {
		return fmt.Errorf("register kind: %q already registered", info.Kind)
	}
	kinds[info.Kind] = info
	return nil
}

// Lookup returns the table entry for kind.
func Lookup(kind Kind) (KindInfo, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	k, ok := kinds[kind]
	return k, ok
}

// Kinds lists registered kinds ordered by name.
func Kinds() []KindInfo {
	kindsMu.RLock()
	out := make([]KindInfo, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k)
	}
	kindsMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// New validates cfg and builds a command of kind.
func New(kind Kind, d *Descriptor, cfg Config, deps Deps) (Command, error) {
	info, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("unknown command kind %q", kind)
	}
	if err := info.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s command: %w", kind, err)
	}
	return info.New(d, cfg.Clone(), deps)
}

// Pattern returns a validator requiring the whole value to match expr.
func Pattern(expr, msg string) Validator {
	re := regexp.MustCompile(`^(?:` + expr + `)$`)
	return func(v string) error {
		if !re.MatchString(v) {
			return errors.New(msg)
		}
		return nil
	}
}

// Bool accepts "true" or "false".
func Bool(v string) error {
	if v != "true" && v != "false" {
		return fmt.Errorf("expected true or false, got %q", v)
	}
	return nil
}

// ExecutableExists accepts a path to an existing file or a program on PATH.
func ExecutableExists(v string) error {
	if st, err := os.Stat(v); err == nil && !st.IsDir() {
		return nil
	}
	if _, err := exec.LookPath(v); err == nil {
		return nil
	}
	return fmt.Errorf("executable %q not found", v)
}

// DirExists accepts an existing directory.
func DirExists(v string) error {
	st, err := os.Stat(v)
	if err != nil || !st.IsDir() {
		return fmt.Errorf("directory %q does not exist", v)
	}
	return nil
}

// UUID accepts a canonical UUID.
func UUID(v string) error {
	if _, err := parseID(v); err != nil {
		return err
	}
	return nil
}

var urlPattern = Pattern(`\w+://.*`, "must be an absolute url such as https://example.com")

func init() {
	builtins := []KindInfo{
		{
			Kind:  KindExecutable,
			Title: "Launch Executable",
			Fields: []FieldInfo{
				{Key: "path", Label: "Executable", Description: "The executable to run when this command is executed.", Required: true, MaxLen: 1024, Validators: []Validator{ExecutableExists}},
				{Key: "args", Label: "Arguments", Description: "Arguments passed to the executable; may contain {tokens}.", MaxLen: 2048},
				{Key: "workdir", Label: "Working Directory", Description: "Directory the executable starts in.", Validators: []Validator{DirExists}},
			},
			New: newExecutable,
		},
		{
			Kind:  KindURL,
			Title: "Launch URL",
			Fields: []FieldInfo{
				{Key: "url", Label: "URL", Description: "The URL to launch; may contain {tokens}.", Required: true, MaxLen: 2048, Validators: []Validator{urlPattern}},
				{Key: "browser", Label: "Browser", Description: "Browser executable; empty uses the system default."},
				{Key: "args", Label: "Arguments", Description: "Extra browser arguments."},
			},
			New: newURL,
		},
		{
			Kind:  KindShell,
			Title: "Run Shell",
			Fields: []FieldInfo{
				{Key: "command", Label: "Command", Description: "Shell line to run; may contain {tokens}.", Required: true, MaxLen: 2048},
				{Key: "workdir", Label: "Working Directory", Description: "Directory the command runs in.", Validators: []Validator{DirExists}},
				{Key: "shell", Label: "Shell", Description: "Shell override such as pwsh or zsh."},
				{Key: "force", Label: "Force", Description: "Skip the dangerous command screen.", Validators: []Validator{Bool}},
			},
			New: newShell,
		},
		{
			Kind:  KindAlias,
			Title: "Alias",
			Fields: []FieldInfo{
				{Key: "target", Label: "Target", Description: "ID of the command this alias runs.", Required: true, Validators: []Validator{UUID}},
			},
			New: newAlias,
		},
	}
	for _, k := range builtins {
		if err := RegisterKind(k); err != nil {
			panic(err)
		}
	}
}
