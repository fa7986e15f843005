package midi

import "testing"

func TestNRPNTrackerResolvesOnDataLSB(t *testing.T) {
	var tr NRPNTracker
	if _, ok := tr.Feed(99, 1); ok {
		t.Fatalf("expected no update from NRPN MSB alone")
	}
	if _, ok := tr.Feed(98, 5); ok {
		t.Fatalf("expected no update from NRPN LSB alone")
	}
	if _, ok := tr.Feed(6, 3); ok {
		t.Fatalf("expected no update from data MSB alone")
	}
	upd, ok := tr.Feed(38, 10)
	if !ok {
		t.Fatalf("expected an update once data LSB arrives")
	}
	wantParam := uint16(1)<<7 | uint16(5)
	wantValue := uint16(3)<<7 | uint16(10)
	if upd.Param != wantParam || upd.Value != wantValue {
		t.Errorf("got %+v, want param=%d value=%d", upd, wantParam, wantValue)
	}
}

func TestNRPNTrackerIgnoresDataLSBWithoutParam(t *testing.T) {
	var tr NRPNTracker
	tr.Feed(6, 3)
	if _, ok := tr.Feed(38, 10); ok {
		t.Errorf("expected no update when no NRPN parameter number was ever sent")
	}
}

func TestNRPNTrackerHandlesRepeatedSequences(t *testing.T) {
	var tr NRPNTracker
	tr.Feed(99, 0)
	tr.Feed(98, 1)
	tr.Feed(6, 0)
	first, ok := tr.Feed(38, 64)
	if !ok || first.Param != 1 || first.Value != 64 {
		t.Fatalf("unexpected first resolve: %+v ok=%v", first, ok)
	}

	tr.Feed(99, 0)
	tr.Feed(98, 2)
	tr.Feed(6, 1)
	second, ok := tr.Feed(38, 0)
	if !ok || second.Param != 2 || second.Value != 1<<7 {
		t.Fatalf("unexpected second resolve: %+v ok=%v", second, ok)
	}
}

func TestPair14CoversFullRange(t *testing.T) {
	if got := Pair14(0, 0); got != 0 {
		t.Errorf("Pair14(0,0) = %v, want 0", got)
	}
	if got := Pair14(127, 127); got < 0.999 || got > 1.0 {
		t.Errorf("Pair14(127,127) = %v, want ~1.0", got)
	}
}
