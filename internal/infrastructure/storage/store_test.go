package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestCipher(t *testing.T, name, secret string) Cipher {
	t.Helper()
	c, err := NewCipher(name, secret, 10)
	if err != nil {
		t.Fatalf("NewCipher(%s): %v", name, err)
	}
	return c
}

func TestStore_PlaintextWithoutSecret(t *testing.T) {
	medium := NewMemoryMedium()
	store := NewStore(medium, newTestCipher(t, "xchacha", ""), zerolog.Nop())
	ctx := context.Background()

	if store.Encrypted() {
		t.Fatalf("store without secret must not encrypt")
	}
	if err := store.Set(ctx, "k", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if raw, _ := medium.Raw("k"); raw != `{"a":1}` {
		t.Fatalf("expected plaintext in medium, got %q", raw)
	}
	if v, ok := store.Get(ctx, "k"); !ok || v != `{"a":1}` {
		t.Fatalf("unexpected get: %q %v", v, ok)
	}
}

func TestStore_EncryptedRoundTrip(t *testing.T) {
	for _, name := range []string{"xchacha", "age"} {
		name := name
		t.Run(name, func(t *testing.T) {
			medium := NewMemoryMedium()
			store := NewStore(medium, newTestCipher(t, name, "s3cret"), zerolog.Nop())
			ctx := context.Background()

			for _, value := range []string{"", "x", `{"state":{"accessToken":"abc"},"version":0}`, "ünïcødé ₱"} {
				if err := store.Set(ctx, "k", value); err != nil {
					t.Fatalf("set: %v", err)
				}
				raw, _ := medium.Raw("k")
				if value != "" && raw == value {
					t.Fatalf("value stored in plaintext")
				}
				got, ok := store.Get(ctx, "k")
				if value == "" {
					continue
				}
				if !ok || got != value {
					t.Fatalf("round trip: got %q %v, want %q", got, ok, value)
				}
			}
		})
	}
}

func TestStore_WrongSecretReadsAbsent(t *testing.T) {
	for _, name := range []string{"xchacha", "age"} {
		name := name
		t.Run(name, func(t *testing.T) {
			medium := NewMemoryMedium()
			ctx := context.Background()

			writer := NewStore(medium, newTestCipher(t, name, "right"), zerolog.Nop())
			if err := writer.Set(ctx, "k", "payload"); err != nil {
				t.Fatalf("set: %v", err)
			}

			reader := NewStore(medium, newTestCipher(t, name, "wrong"), zerolog.Nop())
			if v, ok := reader.Get(ctx, "k"); ok || v != "" {
				t.Fatalf("expected absent with wrong secret, got %q %v", v, ok)
			}
		})
	}
}

func TestStore_CorruptValueReadsAbsent(t *testing.T) {
	medium := NewMemoryMedium()
	ctx := context.Background()
	_ = medium.Set(ctx, "k", "not base64 at all !!")

	store := NewStore(medium, newTestCipher(t, "xchacha", "s"), zerolog.Nop())
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("corrupt value must read as absent")
	}
}

func TestStore_NilMediumIsNoop(t *testing.T) {
	store := NewStore(nil, nil, zerolog.Nop())
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("nil medium must report absent")
	}
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestNewCipher_Unknown(t *testing.T) {
	if _, err := NewCipher("rot13", "s", 0); err == nil {
		t.Fatalf("expected error for unknown cipher")
	}
}

func TestFileMedium_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	ctx := context.Background()

	first := NewFileMedium(path)
	if _, ok, err := first.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected empty medium, got ok=%v err=%v", ok, err)
	}
	if err := first.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Set(ctx, "other", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}

	second := NewFileMedium(path)
	if v, ok, err := second.Get(ctx, "k"); err != nil || !ok || v != "v1" {
		t.Fatalf("unexpected get: %q %v %v", v, ok, err)
	}
	if err := second.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := first.Get(ctx, "k"); ok {
		t.Fatalf("removed key still present")
	}
	if v, _, _ := first.Get(ctx, "other"); v != "v2" {
		t.Fatalf("unrelated key lost: %q", v)
	}
}
