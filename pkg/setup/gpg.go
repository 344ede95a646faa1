// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ProtonMail/gopenpgp/v3/constants"
	"github.com/ProtonMail/gopenpgp/v3/crypto"
	"github.com/ProtonMail/gopenpgp/v3/profile"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// expiryWarning is how close to expiry a signing key has to be before the
// run warns about it.
const expiryWarning = 30 * 24 * time.Hour

// KeyInfo describes an OpenPGP key.
type KeyInfo struct {
	KeyID       string
	Fingerprint string
	Name        string
	Email       string
	Created     time.Time
	Expires     time.Time
}

// UserID renders "Name <email>".
func (k KeyInfo) UserID() string {
	switch {
	case k.Name != "" && k.Email != "":
		return fmt.Sprintf("%s <%s>", k.Name, k.Email)
	case k.Email != "":
		return "<" + k.Email + ">"
	}
	return k.Name
}

// Expired reports whether the key had expired at now.
func (k KeyInfo) Expired(now time.Time) bool {
	return !k.Expires.IsZero() && !now.Before(k.Expires)
}

// ParseSecretKeyID returns the long key id of the first "sec" entry in
// `gpg --list-secret-keys --keyid-format=long` output.
func ParseSecretKeyID(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "sec" {
			continue
		}
		if _, id, ok := strings.Cut(fields[1], "/"); ok && id != "" {
			return strings.ToUpper(id)
		}
	}
	return ""
}

// InspectKey parses an armored or binary key.
func InspectKey(data []byte) (*KeyInfo, error) {
	key, err := crypto.NewKeyFromArmored(string(data))
	if err != nil {
		key, err = crypto.NewKey(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse key: %w", err)
		}
	}

	entity := key.GetEntity()
	if entity == nil || entity.PrimaryKey == nil {
		return nil, fmt.Errorf("key has no primary key")
	}
	info := &KeyInfo{
		KeyID:       fmt.Sprintf("%016X", entity.PrimaryKey.KeyId),
		Fingerprint: fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint),
		Created:     entity.PrimaryKey.CreationTime,
	}
	for _, identity := range entity.Identities {
		if identity.UserId != nil {
			info.Name = identity.UserId.Name
			info.Email = identity.UserId.Email
		}
		if sig, err := identity.LatestValidSelfCertification(time.Now(), nil); err == nil &&
			sig != nil && sig.KeyLifetimeSecs != nil && *sig.KeyLifetimeSecs > 0 {
			info.Expires = entity.PrimaryKey.CreationTime.Add(
				time.Duration(*sig.KeyLifetimeSecs) * time.Second)
		}
		break
	}
	return info, nil
}

// GenerateSigningKey creates an armored private key for name and email.
// A zero lifetime never expires.
func GenerateSigningKey(name, email string, lifetime time.Duration) (string, *KeyInfo, error) {
	if name == "" || email == "" {
		return "", nil, fmt.Errorf("a signing key needs both a name and an email")
	}

	pgp := crypto.PGPWithProfile(profile.RFC4880())
	gen := pgp.KeyGeneration().AddUserId(name, email)
	if lifetime > 0 {
		gen = gen.Lifetime(int32(lifetime / time.Second))
	}
	key, err := gen.New().GenerateKeyWithSecurity(constants.StandardSecurity)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate key: %w", err)
	}
	defer key.ClearPrivateParams()

	armored, err := key.Armor()
	if err != nil {
		return "", nil, fmt.Errorf("failed to armor key: %w", err)
	}
	info, err := InspectKey([]byte(armored))
	if err != nil {
		return "", nil, err
	}
	return armored, info, nil
}

func (s *Steps) setupSigning(ctx context.Context, plan Plan) {
	s.logf("[GPG] Setting up commit signing...")

	if c, err := s.output(ctx, "gpg", "--version"); err != nil || !c.Success() {
		s.logf("[WARN] gpg is not available: %s", failure(c, err))
		s.logf("  Install gnupg and re-run, or set up signing manually")
		return
	}

	// gpg exits non-zero when no key matches the email; that reads as "none".
	args := []string{"--list-secret-keys", "--keyid-format=long"}
	if plan.Email != "" {
		args = append(args, plan.Email)
	}
	var id string
	if c, err := s.output(ctx, "gpg", args...); err == nil && c.Success() {
		id = ParseSecretKeyID(c.StdoutText())
	}

	if id == "" {
		if !plan.GenerateSigningKey {
			s.logf("[GPG] No secret key found. Create one with 'gpg --full-generate-key' and re-run")
			return
		}
		if id = s.generateAndImport(ctx, plan); id == "" {
			return
		}
	}

	if exported, err := s.output(ctx, "gpg", "--armor", "--export", id); err == nil && exported.Success() {
		if info, err := InspectKey([]byte(exported.StdoutText())); err == nil {
			s.describeKey(info)
		} else {
			log.Debug("could not inspect exported key", "id", id, "err", err)
		}
	}

	ok := s.gitConfig(ctx, "user.signingkey", id)
	ok = s.gitConfig(ctx, "commit.gpgsign", "true") && ok
	ok = s.gitConfig(ctx, "tag.gpgsign", "true") && ok
	if ok {
		s.logf("[GPG] Commits will be signed with %s", id)
	}
}

func (s *Steps) describeKey(info *KeyInfo) {
	s.logf("[GPG] Using key %s %s", info.KeyID, info.UserID())
	now := time.Now()
	switch {
	case info.Expires.IsZero():
	case info.Expired(now):
		s.logf("[WARN] Signing key expired %s", humanize.Time(info.Expires))
	case info.Expires.Sub(now) < expiryWarning:
		s.logf("[WARN] Signing key expires %s", humanize.Time(info.Expires))
	}
}

// generateAndImport creates a key and hands it to gpg, returning its id.
func (s *Steps) generateAndImport(ctx context.Context, plan Plan) string {
	s.logf("[GPG] Generating signing key for %s <%s>...", plan.Name, plan.Email)
	armored, info, err := GenerateSigningKey(plan.Name, plan.Email, 0)
	if err != nil {
		s.logf("[WARN] Could not generate signing key: %v", err)
		return ""
	}

	dir := filepath.Join(s.Env.ConfigDir, "loadstar")
	path := filepath.Join(dir, "signing-key.asc")
	if err := s.Fs.MkdirAll(dir, 0o700); err != nil {
		s.logf("[WARN] Could not create %s: %v", s.tilde(dir), err)
		return ""
	}
	if err := writeFile(s.Fs, path, armored, 0o600); err != nil {
		s.logf("[WARN] Could not write %s: %v", s.tilde(path), err)
		return ""
	}
	defer func() { _ = s.Fs.Remove(path) }()

	c, err := s.output(ctx, "gpg", "--batch", "--import", path)
	if err != nil || !c.Success() {
		s.logf("[WARN] gpg --import failed: %s", failure(c, err))
		return ""
	}
	s.logf("[GPG] Imported new key %s", info.KeyID)
	return info.KeyID
}
