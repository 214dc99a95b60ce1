package enrich

import "testing"

func TestTokenStateChannelSeesLaterChange(t *testing.T) {
	token := newControlToken()
	token.RequestPause()

	// The channel observed alongside paused=true must fire for a resume
	// that lands after the read, even before the reader blocks on it.
	paused, cancelled, changed := token.State()
	if !paused || cancelled {
		t.Fatalf("expected paused state, got paused=%v cancelled=%v", paused, cancelled)
	}
	token.RequestResume()

	select {
	case <-changed:
	default:
		t.Fatal("resume after the state read must fire the observed channel")
	}

	paused, _, _ = token.State()
	if paused {
		t.Fatal("expected resumed state")
	}
}

func TestTokenRedundantRequestsDoNotNotify(t *testing.T) {
	token := newControlToken()

	_, _, changed := token.State()
	token.RequestResume()
	select {
	case <-changed:
		t.Fatal("resume without a pause must not notify")
	default:
	}

	token.RequestPause()
	_, _, changed = token.State()
	token.RequestPause()
	select {
	case <-changed:
		t.Fatal("repeated pause must not notify")
	default:
	}
}

func TestTokenCancelOverridesPause(t *testing.T) {
	token := newControlToken()
	token.RequestPause()
	token.RequestCancel()

	paused, cancelled, _ := token.State()
	if paused || !cancelled {
		t.Fatalf("expected cancelled and unpaused, got paused=%v cancelled=%v", paused, cancelled)
	}

	token.RequestResume()
	if _, cancelled, _ := token.State(); !cancelled {
		t.Fatal("cancel is terminal")
	}
}
