package utils

import "testing"

func TestGetLoggerInitialisesOnce(t *testing.T) {
	orig := Logger
	t.Cleanup(func() { Logger = orig })

	Logger = nil
	first := GetLogger()
	if first == nil {
		t.Fatal("expected logger")
	}
	if GetLogger() != first {
		t.Fatal("expected cached logger")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected nop logger")
	}
	l := GetLogger()
	if OrNop(l) != l {
		t.Fatal("expected same logger")
	}
}
