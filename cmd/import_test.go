package cmd

import (
	"bytes"
	"strings"
	"testing"

	"content-planner/core/reconcile"
	"content-planner/feature/performance"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.want, confirm(strings.NewReader(tt.input), &out, "Apply?"))
			assert.Equal(t, "Apply? [y/N]: ", out.String())
		})
	}
}

func TestLogReport_CapsIssues(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	report := &performance.ImportReport{
		RunID: "run-1",
		Summary: reconcile.Summary{
			TotalRows: 4,
			Missing: []reconcile.Issue{
				{RowNumber: 2, Reason: "a"},
				{RowNumber: 3, Reason: "b"},
				{RowNumber: 4, Reason: "c"},
			},
		},
	}
	logReport(zap.New(core), report, 2)

	assert.Equal(t, 1, logs.FilterMessage("Import summary").Len())
	assert.Equal(t, 2, logs.FilterMessage("Missing").Len())

	truncated := logs.FilterMessage("Missing rows truncated").All()
	if assert.Len(t, truncated, 1) {
		assert.Equal(t, int64(1), truncated[0].ContextMap()["more"])
	}
}
