// SPDX-License-Identifier: Apache-2.0
package version

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/Work-Fort/Loadstar/pkg/config"
	"github.com/Work-Fort/Loadstar/pkg/github"
)

func execute(t *testing.T, cmdVersion string, client *github.Client, args ...string) (string, error) {
	t.Helper()
	cmd := newVersionCmd(cmdVersion, client)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func releaseServer(t *testing.T, tag string) *github.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.com/` + tag + `"}`))
	}))
	t.Cleanup(srv.Close)
	return github.NewClient().WithBaseURL(srv.URL)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", github.NewClient())
	if err != nil {
		t.Fatal(err)
	}
	if out != "loadstar version dev\n" {
		t.Errorf("got %q", out)
	}
}

func TestVersionCheck(t *testing.T) {
	config.InitViper()

	out, err := execute(t, "1.2.0", releaseServer(t, "v1.3.0"), "--check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Version 1.3.0 is available") {
		t.Errorf("expected update notice, got %q", out)
	}

	out, err = execute(t, "1.3.0", releaseServer(t, "v1.3.0"), "--check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Up to date") {
		t.Errorf("expected up to date, got %q", out)
	}
}

func TestVersionCheckDisabled(t *testing.T) {
	config.InitViper()
	viper.Set("update.check", false)
	t.Cleanup(func() { viper.Set("update.check", true) })

	_, err := execute(t, "1.2.0", releaseServer(t, "v1.3.0"), "--check")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("expected disabled error, got %v", err)
	}
}
