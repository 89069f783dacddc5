package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander replaces a leading "~" in projects-folder paths with the user's home directory.
// The home directory is looked up once and reused.
type HomeExpander struct {
	provider  HomeDirectoryProvider
	lookup    sync.Once
	home      string
	lookupErr error
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(nil)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{provider: provider}
}

// Expand resolves "~" and "~/..." (or the OS separator form). "~user" paths and
// paths without a shortcut are returned unchanged, as is everything when the home
// directory cannot be determined.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, homeShortcutConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	home := expander.homeDirectory()
	if len(home) == 0 {
		return candidatePath
	}
	if len(remainder) == 0 {
		return home
	}
	return filepath.Join(home, remainder[1:])
}

func (expander *HomeExpander) homeDirectory() string {
	expander.lookup.Do(func() {
		expander.home, expander.lookupErr = expander.provider()
	})
	if expander.lookupErr != nil {
		return ""
	}
	return expander.home
}
