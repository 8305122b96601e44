package lang

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	pos := Position{Offset: 4, Line: 2, Column: 3}

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", NewError("boom"), "boom"},
		{"positioned", ErrUnexpectedToken.At(pos), "2:3: unexpected token"},
		{"with detail", ErrUnexpectedToken.At(pos).Detailf("found %s", `")"`), `2:3: unexpected token: found ")"`},
		{"with cause", ErrReadInput.Wrap(io.ErrUnexpectedEOF), "failed to read input: unexpected EOF"},
		{"cause only", WrapError(io.EOF), "EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	derived := ErrDuplicateID.At(Position{1, 1, 2}).Detailf("x").Relate(Position{0, 1, 1})

	if !errors.Is(derived, ErrDuplicateID) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(derived, ErrDetachedSelector) {
		t.Error("derived error matches another sentinel")
	}

	read := ErrReadInput.Wrap(io.ErrClosedPipe)

	if !errors.Is(read, ErrReadInput) {
		t.Error("code-less error does not match by message")
	}

	if !errors.Is(read, io.ErrClosedPipe) {
		t.Error("wrapped cause is not reachable")
	}

	if errors.Is(NewError("other"), ErrReadInput) {
		t.Error("different messages match")
	}

	wrapped := fmt.Errorf("outer: %w", derived)

	var e *Error
	if !errors.As(wrapped, &e) || e.Code() != CodeDuplicateID {
		t.Error("errors.As did not recover the diagnostic")
	}
}

func TestError_Immutable(t *testing.T) {
	base := ErrInvalidKey
	_ = base.At(Position{3, 1, 4}).Detailf("d").With(slog.Int("n", 1)).Relate(Position{1, 1, 2})

	if base.Pos().IsValid() || base.Message() != "invalid placeholder key" {
		t.Error("sentinel was modified by derivation")
	}

	if _, ok := base.Related(); ok {
		t.Error("sentinel gained a related position")
	}
}

func TestError_Fatal(t *testing.T) {
	if !ErrIllegalCharacter.Fatal() {
		t.Error("lexical errors must be fatal")
	}

	if ErrUnexpectedToken.Fatal() {
		t.Error("declaration errors are recoverable by default")
	}

	if !ErrUnexpectedToken.asFatal().Fatal() {
		t.Error("asFatal did not mark the error")
	}
}

func TestError_LogValue(t *testing.T) {
	var sb strings.Builder

	logger := slog.New(slog.NewTextHandler(&sb, nil))
	logger.Info("diag", slog.Any("error",
		ErrUnexpectedToken.At(Position{7, 2, 1}).Detailf("x").Wrap(io.EOF).With(slog.String("file", "a.skui"))))

	out := sb.String()

	for _, want := range []string{
		"error.stage=DeclParseError",
		"error.code=UnexpectedToken",
		"error.detail=x",
		"error.pos.line=2",
		"error.cause=EOF",
		"error.file=a.skui",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}

func TestStageAndCode_String(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{StageLex.String(), "LexError"},
		{StageValue.String(), "ValueParseError"},
		{StageDecl.String(), "DeclParseError"},
		{StageValidate.String(), "ValidationError"},
		{StageNone.String(), "Error"},
		{CodeIDNotAllowed.String(), "IdNotAllowed"},
		{CodeMixedRelativeKey.String(), "MixedRelativeKey"},
		{Code(99).String(), "Code(99)"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	diags := Diagnostics{
		ErrRootCardinality.At(Position{20, 3, 1}),
		ErrIDNotAllowed.At(Position{5, 1, 6}),
		ErrRootCardinality.At(Position{5, 1, 6}).Detailf("second"),
	}

	if got := diags.Count(ErrRootCardinality); got != 2 {
		t.Errorf("Count(RootCardinality) = %d, want 2", got)
	}

	if diags.Fatal() {
		t.Error("validation diagnostics are not fatal")
	}

	sorted := diags.Sorted()

	var order []Code
	for _, d := range sorted {
		order = append(order, d.Code())
	}

	// Stable: same-offset diagnostics keep detection order.
	want := []Code{CodeIDNotAllowed, CodeRootCardinality, CodeRootCardinality}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Sorted() order = %v, want %v", order, want)
		}
	}

	if sorted[1].Message() != "root cardinality: second" {
		t.Errorf("Sorted() did not keep detection order: %v", sorted)
	}

	if diags[0].Pos().Line != 3 {
		t.Error("Sorted() modified the receiver")
	}

	wantText := "ValidationError 3:1: root cardinality\n" +
		"ValidationError 1:6: id not allowed\n" +
		"ValidationError 1:6: root cardinality: second"
	if got := diags.Error(); got != wantText {
		t.Errorf("Error() = %q, want %q", got, wantText)
	}

	var err error = diags
	if !errors.Is(err, ErrIDNotAllowed) {
		t.Error("errors.Is does not see individual diagnostics")
	}
}

func TestAsDiagnostics(t *testing.T) {
	d := ErrUnexpectedEOF.At(Position{0, 1, 1})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", io.EOF, 0},
		{"single diagnostic", d, 1},
		{"wrapped diagnostic", fmt.Errorf("ctx: %w", d), 1},
		{"list", Diagnostics{d, d}, 2},
		{"wrapped list", fmt.Errorf("ctx: %w", Diagnostics{d, d, d}), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AsDiagnostics(tt.err); len(got) != tt.want {
				t.Errorf("len(AsDiagnostics) = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	if (Position{}).IsValid() {
		t.Error("zero position is valid")
	}

	if got := (Position{}).String(); got != "-" {
		t.Errorf("zero String() = %q", got)
	}

	if got := (Position{Offset: 9, Line: 3, Column: 4}).String(); got != "3:4" {
		t.Errorf("String() = %q, want 3:4", got)
	}
}
