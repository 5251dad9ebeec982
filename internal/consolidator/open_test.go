package consolidator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Joaotp75/dashboard-assessores/internal/consolidator"
)

func workbookBytes(t *testing.T, sheet string, rows map[int][]interface{}) []byte {
	t.Helper()
	f := buildWorkbook(t, sheetFixture{name: sheet, rows: rows})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func TestOpenAll_KeepsInputOrder(t *testing.T) {
	t.Parallel()

	payloads := []consolidator.Payload{
		{Filename: "ZZ9999.xlsx", Data: workbookBytes(t, "Março", map[int][]interface{}{2: {"", "A", 1.0, 0.0, 1.0}})},
		{Filename: "AA0001.xlsx", Data: workbookBytes(t, "Janeiro", map[int][]interface{}{2: {"", "B", 2.0, 0.0, 2.0}})},
		{Filename: "MM5555.xlsx", Data: workbookBytes(t, "Junho", map[int][]interface{}{2: {"", "C", 3.0, 0.0, 3.0}})},
	}

	sources, err := consolidator.OpenAll(context.Background(), payloads, 2)
	if err != nil {
		t.Fatalf("OpenAll failed: %v", err)
	}
	defer consolidator.CloseAll(sources)

	result, err := consolidator.Consolidate(sources)
	if err != nil {
		t.Fatalf("Consolidate failed: %v", err)
	}
	want := []string{"ZZ9999", "AA0001", "MM5555"}
	if len(result.Table) != len(want) {
		t.Fatalf("rows=%d, want %d", len(result.Table), len(want))
	}
	for i, code := range want {
		if result.Table[i].AdvisorCode != code {
			t.Fatalf("row %d advisor=%q, want %q", i, result.Table[i].AdvisorCode, code)
		}
	}
}

func TestOpenAll_FailsOnBadPayload(t *testing.T) {
	t.Parallel()

	payloads := []consolidator.Payload{
		{Filename: "AB1234.xlsx", Data: workbookBytes(t, "Janeiro", nil)},
		{Filename: "CD5678.xlsx", Data: []byte("not a zip")},
	}
	_, err := consolidator.OpenAll(context.Background(), payloads, 0)
	if !errors.Is(err, consolidator.ErrInvalidWorkbook) {
		t.Fatalf("err=%v, want ErrInvalidWorkbook", err)
	}
	var wbErr *consolidator.WorkbookError
	if !errors.As(err, &wbErr) || wbErr.Filename != "CD5678.xlsx" {
		t.Fatalf("err=%v, want WorkbookError for CD5678.xlsx", err)
	}
}

func TestOpenAll_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := consolidator.OpenAll(ctx, []consolidator.Payload{{Filename: "AB1234.xlsx", Data: workbookBytes(t, "Janeiro", nil)}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
