package console

import (
	"context"
	"fmt"
	"os"

	"github.com/limhaneul12/kafka-gov-console/internal/security"
	"github.com/limhaneul12/kafka-gov-console/internal/store"
)

// ResolveUpstreamToken returns the governance backend token for the proxy.
// A token from UPSTREAM_API_TOKEN wins and is persisted encrypted so later
// restarts can run without the variable; otherwise the stored token is
// decrypted and used. Returns empty when neither source has one.
func ResolveUpstreamToken(ctx context.Context, settings *store.SettingsStore, cipher *security.TokenCipher) (string, error) {
	if token := os.Getenv("UPSTREAM_API_TOKEN"); token != "" {
		if cipher != nil && settings != nil {
			ciphertext, nonce, keyID, err := cipher.Encrypt(token)
			if err != nil {
				return "", fmt.Errorf("failed to encrypt upstream token: %w", err)
			}
			if err := settings.SaveSecret(ctx, &store.SecretRecord{
				Key:        store.SettingUpstreamToken,
				Ciphertext: ciphertext,
				Nonce:      nonce,
				KeyID:      keyID,
			}); err != nil {
				return "", err
			}
		}
		return token, nil
	}

	if cipher == nil || settings == nil {
		return "", nil
	}
	rec, err := settings.GetSecret(ctx, store.SettingUpstreamToken)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	token, err := cipher.Decrypt(rec.Ciphertext, rec.Nonce)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt stored upstream token: %w", err)
	}
	return token, nil
}
