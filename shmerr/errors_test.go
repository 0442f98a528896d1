package shmerr

import "testing"

func TestCodeStringCoversKnownValues(t *testing.T) {
	cases := map[Code]string{
		Ok:              "Ok",
		Error:           "Error",
		PayloadTooLarge: "PayloadTooLarge",
		Truncated:       "Truncated",
		Timeout:         "Timeout",
		NoData:          "NoData",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("Code(%d).String() = %q, want %q", int(code), got, want)
		}
	}
}

func TestCodeStringFallsBackForUnknownValues(t *testing.T) {
	if got := Code(-99).String(); got != "Code(-99)" {
		t.Errorf("Code(-99).String() = %q", got)
	}
}

func TestErrorWithContext(t *testing.T) {
	err := New(Error, "boom").WithContext("topic", "orders")
	if err.Error() == "boom" {
		t.Fatal("WithContext did not change Error() output")
	}
	if err.Code != Error {
		t.Fatalf("Code = %v, want Error", err.Code)
	}
}

func TestErrorWithoutContext(t *testing.T) {
	err := New(Timeout, "generation wait exhausted")
	if err.Error() != "generation wait exhausted" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
