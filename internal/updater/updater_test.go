package updater

import (
	"runtime"
	"strings"
	"testing"
)

func TestPlatformAssetName(t *testing.T) {
	got := PlatformAssetName()
	if !strings.HasPrefix(got, "copywriter_") {
		t.Errorf("PlatformAssetName() = %q", got)
	}
	if !strings.HasSuffix(got, runtime.GOOS+"_"+runtime.GOARCH) {
		t.Errorf("PlatformAssetName() = %q; want platform suffix", got)
	}
}

func TestCurrentVersion(t *testing.T) {
	if strings.HasPrefix(currentVersion(), "v") {
		t.Errorf("currentVersion() = %q; want no v prefix", currentVersion())
	}
}
