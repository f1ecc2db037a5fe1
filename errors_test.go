package jadn_test

import (
	"fmt"
	"strings"
	"testing"

	jadn "github.com/ScreamBun/jadn-go"
)

func TestIssueError(t *testing.T) {
	i := jadn.Issue{Path: "Order.dish", Code: jadn.CodeType, Message: "boom"}
	if got := i.Error(); got != "type_error at Order.dish: boom" {
		t.Fatalf("error = %q", got)
	}
	i.Path = ""
	if got := i.Error(); got != "type_error: boom" {
		t.Fatalf("error = %q", got)
	}
}

func TestIssuesSummary(t *testing.T) {
	var iss jadn.Issues
	for n := 0; n < 5; n++ {
		iss = jadn.AppendIssues(iss, jadn.Issue{Path: fmt.Sprintf("T%d", n), Code: jadn.CodeValidation})
	}
	msg := iss.Error()
	if !strings.Contains(msg, "T0") || !strings.Contains(msg, "T2") {
		t.Fatalf("summary = %q", msg)
	}
	if strings.Contains(msg, "T3") {
		t.Fatalf("summary shows more than three issues: %q", msg)
	}
	if !strings.Contains(msg, "(total 5)") {
		t.Fatalf("summary = %q", msg)
	}
}

func TestAsIssues(t *testing.T) {
	var err error = jadn.Issues{{Code: jadn.CodeFormat, Message: "x"}}
	iss, ok := jadn.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("AsIssues = %v, %v", iss, ok)
	}
	if _, ok := jadn.AsIssues(nil); ok {
		t.Fatal("nil error produced issues")
	}
	if _, ok := jadn.AsIssues(fmt.Errorf("plain")); ok {
		t.Fatal("plain error produced issues")
	}

	var single error = jadn.Issue{Code: jadn.CodeValue, Message: "y"}
	iss, ok = jadn.AsIssues(single)
	if !ok || len(iss) != 1 || iss[0].Code != jadn.CodeValue {
		t.Fatalf("AsIssues(Issue) = %v, %v", iss, ok)
	}
}
