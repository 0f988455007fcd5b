package history

import (
	"strings"
	"testing"
)

func TestQueryNormalize(t *testing.T) {
	tests := []struct {
		in   Query
		want Query
	}{
		{Query{}, Query{Limit: 50}},
		{Query{Limit: 10, Offset: 5}, Query{Limit: 10, Offset: 5}},
		{Query{Limit: 1000}, Query{Limit: 200}},
		{Query{Limit: 20, Offset: -3}, Query{Limit: 20}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestBuildListQuery(t *testing.T) {
	query, args := BuildListQuery(Query{Limit: 10, Offset: 20})
	if strings.Contains(query, "WHERE") {
		t.Errorf("expected no filter, got %s", query)
	}
	if !strings.HasSuffix(query, "LIMIT $1 OFFSET $2") {
		t.Errorf("unexpected paging clause: %s", query)
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 20 {
		t.Errorf("unexpected args %v", args)
	}
}

func TestBuildListQueryWithStatus(t *testing.T) {
	query, args := BuildListQuery(Query{Status: "transcode_error"})
	if !strings.Contains(query, "WHERE status = $1") {
		t.Errorf("expected status filter, got %s", query)
	}
	if !strings.HasSuffix(query, "LIMIT $2 OFFSET $3") {
		t.Errorf("unexpected paging clause: %s", query)
	}
	if len(args) != 3 || args[0] != "transcode_error" || args[1] != 50 || args[2] != 0 {
		t.Errorf("unexpected args %v", args)
	}
}
