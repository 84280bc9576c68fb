package console

import (
	"context"
	"testing"

	"github.com/limhaneul12/kafka-gov-console/internal/security"
	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

func TestResolveUpstreamTokenPersistsAndReloads(t *testing.T) {
	initConsoleTestDB(t)
	settings := store.NewSettingsStore()
	ctx := context.Background()

	t.Setenv("CONSOLE_TOKEN_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	cipher, err := security.NewTokenCipherFromEnv()
	if err != nil {
		t.Fatalf("NewTokenCipherFromEnv() error = %v", err)
	}

	t.Setenv("UPSTREAM_API_TOKEN", "gov-backend-token-42")
	token, err := ResolveUpstreamToken(ctx, settings, cipher)
	if err != nil {
		t.Fatalf("ResolveUpstreamToken() error = %v", err)
	}
	if token != "gov-backend-token-42" {
		t.Fatalf("token = %q, want the env value", token)
	}

	rec, err := settings.GetSecret(ctx, store.SettingUpstreamToken)
	if err != nil {
		t.Fatalf("GetSecret() error = %v", err)
	}
	if rec == nil {
		t.Fatal("env token was not persisted")
	}
	if rec.Ciphertext == "gov-backend-token-42" {
		t.Error("token stored in plaintext")
	}

	// Later boot without the variable loads the stored token.
	t.Setenv("UPSTREAM_API_TOKEN", "")
	token, err = ResolveUpstreamToken(ctx, settings, cipher)
	if err != nil {
		t.Fatalf("ResolveUpstreamToken() reload error = %v", err)
	}
	if token != "gov-backend-token-42" {
		t.Fatalf("reloaded token = %q, want gov-backend-token-42", token)
	}
}

func TestResolveUpstreamTokenWithoutCipher(t *testing.T) {
	initConsoleTestDB(t)
	settings := store.NewSettingsStore()

	t.Setenv("UPSTREAM_API_TOKEN", "plain-env-token")
	token, err := ResolveUpstreamToken(context.Background(), settings, nil)
	if err != nil {
		t.Fatalf("ResolveUpstreamToken() error = %v", err)
	}
	if token != "plain-env-token" {
		t.Fatalf("token = %q, want plain-env-token", token)
	}

	rec, err := settings.GetSecret(context.Background(), store.SettingUpstreamToken)
	if err != nil {
		t.Fatalf("GetSecret() error = %v", err)
	}
	if rec != nil {
		t.Fatal("token must not be persisted without a cipher")
	}
}
