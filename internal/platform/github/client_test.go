package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_TokenAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if !strings.HasPrefix(r.URL.Path, "/api/v3/") {
			t.Errorf("request path %q should use the enterprise prefix", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{Token: "ghp_test", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	user, _, err := client.Users.Get(context.Background(), "")
	if err != nil {
		t.Fatalf("Users.Get() error: %v", err)
	}
	if user.GetLogin() != "octocat" {
		t.Errorf("login = %q, want octocat", user.GetLogin())
	}
	if gotAuth != "Bearer ghp_test" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer ghp_test")
	}
}

func TestNewClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "no credentials", opts: Options{}},
		{name: "invalid app private key", opts: Options{AppID: 1, InstallationID: 2, PrivateKeyPEM: "not a key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.opts); err == nil {
				t.Error("NewClient() expected error, got nil")
			}
		})
	}
}
