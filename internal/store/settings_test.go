package store

import (
	"errors"
	"testing"

	"github.com/ayusman/nayana/internal/wink"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	t.Run("missing key", func(t *testing.T) {
		if _, err := repo.Get("absent"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := repo.Set("ui.theme", "dark"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, err := repo.Get("ui.theme")
		if err != nil || v != "dark" {
			t.Errorf("Get() = %q, %v; want dark", v, err)
		}
	})

	t.Run("set overwrites", func(t *testing.T) {
		repo.Set("ui.theme", "dark")
		repo.Set("ui.theme", "light")

		v, _ := repo.Get("ui.theme")
		if v != "light" {
			t.Errorf("Get() = %q, want light", v)
		}
	})
}

func TestSettingsRepository_GetFloat(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	repo.Set("ok", "0.25")
	repo.Set("bad", "quarter")

	if v, err := repo.GetFloat("ok"); err != nil || v != 0.25 {
		t.Errorf("GetFloat(ok) = %v, %v", v, err)
	}
	if _, err := repo.GetFloat("bad"); err == nil {
		t.Error("GetFloat(bad) should fail to parse")
	}
	if _, err := repo.GetFloat("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFloat(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSettingsRepository_DeleteAll(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	repo.Set("a", "1")
	repo.Set("b", "2")

	all, err := repo.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 2 || all["a"] != "1" || all["b"] != "2" {
		t.Errorf("All() = %v", all)
	}

	if err := repo.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	all, _ = repo.All()
	if len(all) != 1 {
		t.Errorf("All() after delete = %v", all)
	}
}

func TestSettingsRepository_Thresholds(t *testing.T) {
	base := wink.DefaultThresholds()

	t.Run("no overrides returns base", func(t *testing.T) {
		repo := newTestStore(t).Settings()

		got, err := repo.Thresholds(base)
		if err != nil {
			t.Fatalf("Thresholds() error = %v", err)
		}
		if got != base {
			t.Errorf("Thresholds() = %+v, want %+v", got, base)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		repo := newTestStore(t).Settings()
		want := wink.Thresholds{Default: 0.28, Constrained: 0.22}

		if err := repo.SaveThresholds(want); err != nil {
			t.Fatalf("SaveThresholds() error = %v", err)
		}

		got, err := repo.Thresholds(base)
		if err != nil {
			t.Fatalf("Thresholds() error = %v", err)
		}
		if got != want {
			t.Errorf("Thresholds() = %+v, want %+v", got, want)
		}
	})

	t.Run("partial override", func(t *testing.T) {
		repo := newTestStore(t).Settings()
		repo.Set(KeyThresholdDefault, "0.3")

		got, err := repo.Thresholds(base)
		if err != nil {
			t.Fatalf("Thresholds() error = %v", err)
		}
		if got.Default != 0.3 || got.Constrained != base.Constrained {
			t.Errorf("Thresholds() = %+v", got)
		}
	})

	t.Run("invalid pair rejected on save", func(t *testing.T) {
		repo := newTestStore(t).Settings()

		err := repo.SaveThresholds(wink.Thresholds{Default: 0.2, Constrained: 0.3})
		if !errors.Is(err, wink.ErrInvalidThresholds) {
			t.Errorf("SaveThresholds() error = %v, want ErrInvalidThresholds", err)
		}
		if _, err := repo.Get(KeyThresholdDefault); !errors.Is(err, ErrNotFound) {
			t.Error("invalid thresholds should not be stored")
		}
	})

	t.Run("invalid stored pair falls back to base", func(t *testing.T) {
		repo := newTestStore(t).Settings()
		repo.Set(KeyThresholdConstrained, "0.5")

		got, err := repo.Thresholds(base)
		if !errors.Is(err, wink.ErrInvalidThresholds) {
			t.Errorf("Thresholds() error = %v, want ErrInvalidThresholds", err)
		}
		if got != base {
			t.Errorf("Thresholds() = %+v, want base", got)
		}
	})
}
