package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/storage"
)

func waiver(ruleID, file, pattern string) storage.Waiver {
	return storage.Waiver{
		RuleID:     ruleID,
		File:       file,
		PatternSub: pattern,
		Reason:     "test",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func TestApplyWaiversByRule(t *testing.T) {
	in := []ir.Violation{
		{RuleID: "quote-style", File: "a.js", Line: 1, Col: 1, Message: "quote"},
		{RuleID: "brace-style", File: "a.js", Line: 2, Col: 1, Message: "brace"},
	}
	kept, waived := ApplyWaivers(in, []storage.Waiver{waiver("QUOTE-STYLE", "", "")})
	require.Equal(t, 1, waived)
	require.Len(t, kept, 1)
	require.Equal(t, "brace-style", kept[0].RuleID)
}

func TestApplyWaiversFileScoped(t *testing.T) {
	in := []ir.Violation{
		{RuleID: "quote-style", File: "legacy/app.js", Message: "quote"},
		{RuleID: "quote-style", File: "src/new.js", Message: "quote"},
	}
	kept, waived := ApplyWaivers(in, []storage.Waiver{waiver("quote-style", "legacy/app.js", "")})
	require.Equal(t, 1, waived)
	require.Len(t, kept, 1)
	require.Equal(t, "src/new.js", kept[0].File)
}

func TestApplyWaiversPatternMatchesMessageOrSnippet(t *testing.T) {
	in := []ir.Violation{
		{RuleID: "naming-case", File: "a.js", Message: "class widgetBox is not TitleCase"},
		{RuleID: "naming-case", File: "a.js", Message: "class other", Snippet: "var WIDGETBOX = 1;"},
		{RuleID: "naming-case", File: "a.js", Message: "class gadget"},
	}
	kept, waived := ApplyWaivers(in, []storage.Waiver{waiver("naming-case", "", "widgetbox")})
	require.Equal(t, 2, waived)
	require.Len(t, kept, 1)
	require.Contains(t, kept[0].Message, "gadget")
}

func TestApplyWaiversNoWaivers(t *testing.T) {
	in := []ir.Violation{{RuleID: "quote-style", File: "a.js"}}
	kept, waived := ApplyWaivers(in, nil)
	require.Zero(t, waived)
	require.Equal(t, in, kept)
}
