package advisor

import "testing"

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"message":"hi"}`, `{"message":"hi"}`},
		{"bare fence", "```\n{\"message\":\"hi\"}\n```", `{"message":"hi"}`},
		{"json fence", "```json\n{\"message\":\"hi\"}\n```", `{"message":"hi"}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"single line fence", "```{\"a\":1}```", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseStructured(t *testing.T) {
	raw := "```json\n{\"message\":\"here are some matches\",\"types\":[{\"type\":\"Funding\",\"companies\":[{\"name\":\"Acme\",\"reason\":\"funds early ideas\",\"fields\":[]}]}]}\n```"
	resp, err := ParseStructured(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Message != "here are some matches" {
		t.Fatalf("wrong message: %q", resp.Message)
	}
	if len(resp.Types) != 1 || resp.Types[0].Type != "Funding" {
		t.Fatalf("wrong types: %+v", resp.Types)
	}
	if resp.Types[0].Companies[0].Name != "Acme" {
		t.Fatalf("wrong company: %+v", resp.Types[0].Companies)
	}
}

func TestParseStructuredRejectsProse(t *testing.T) {
	if _, err := ParseStructured("Sure! Here are some companies that could help..."); err == nil {
		t.Fatalf("expected error for non-JSON output")
	}
	if _, err := ParseStructured(""); err == nil {
		t.Fatalf("expected error for empty output")
	}
}
