package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

func resetProbe() {
	fallbackModeMu.Lock()
	fallbackChecked = false
	fallbackMode = false
	fallbackModeMu.Unlock()
}

func TestKeyringTokenLifecycle(t *testing.T) {
	keyring.MockInit()
	resetProbe()
	t.Setenv("FOODGRAM_HOME", t.TempDir())

	if _, err := Token(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("Token() before login = %v, want ErrNoToken", err)
	}
	if err := StoreToken("abc.def.ghi"); err != nil {
		t.Fatalf("StoreToken() error = %v", err)
	}
	got, err := Token()
	if err != nil || got != "abc.def.ghi" {
		t.Fatalf("Token() = %q, %v", got, err)
	}
	if StorageMode() != "system-keyring" {
		t.Errorf("StorageMode() = %q", StorageMode())
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() error = %v", err)
	}
	if _, err := Token(); !errors.Is(err, ErrNoToken) {
		t.Errorf("Token() after logout = %v, want ErrNoToken", err)
	}
	if err := DeleteToken(); err != nil {
		t.Errorf("second DeleteToken() error = %v", err)
	}
}

func TestFileFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("no dbus"))
	resetProbe()
	t.Cleanup(resetProbe)
	home := t.TempDir()
	t.Setenv("FOODGRAM_HOME", home)

	if err := StoreToken("file-token"); err != nil {
		t.Fatalf("StoreToken() error = %v", err)
	}
	info, err := os.Stat(filepath.Join(home, ".foodgram", ".token"))
	if err != nil {
		t.Fatalf("token file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Token()
	if err != nil || got != "file-token" {
		t.Fatalf("Token() = %q, %v", got, err)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken() error = %v", err)
	}
	if _, err := Token(); !errors.Is(err, ErrNoToken) {
		t.Errorf("Token() after delete = %v", err)
	}
}
