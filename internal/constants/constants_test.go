package constants

import (
	"strings"
	"testing"
)

// TestUserAgent проверяет, что User-Agent строится от имени приложения.
func TestUserAgent(t *testing.T) {
	if !strings.HasPrefix(UserAgent, AppName+"/") {
		t.Errorf("UserAgent = %q, ожидался префикс %q", UserAgent, AppName+"/")
	}
}

// TestExitCodes проверяет, что коды завершения различаются.
func TestExitCodes(t *testing.T) {
	codes := map[int]string{}
	for name, code := range map[string]int{
		"ExitOK":          ExitOK,
		"ExitFailure":     ExitFailure,
		"ExitConfigError": ExitConfigError,
	} {
		if other, ok := codes[code]; ok {
			t.Errorf("коды %s и %s совпадают: %d", name, other, code)
		}
		codes[code] = name
	}
}
