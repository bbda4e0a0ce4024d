package soniox

import (
	"encoding/json"
	"testing"
)

func TestContext_JSON(t *testing.T) {
	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{"text", TextContext("medical dictation"), `"medical dictation"`},
		{"structured", StructuredContextOf(StructuredContext{
			General: []ContextGeneralItem{{Key: "domain", Value: "finance"}},
			Terms:   []string{"EBITDA"},
		}), `{"general":[{"key":"domain","value":"finance"}],"terms":["EBITDA"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ctx)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}

			var back Context
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatal(err)
			}
			if _, isText := tt.ctx.Text(); isText {
				if s, ok := back.Text(); !ok || s != "medical dictation" {
					t.Errorf("round trip lost text: %q %v", s, ok)
				}
				return
			}
			if sc, ok := back.Structured(); !ok || sc.Terms[0] != "EBITDA" {
				t.Errorf("round trip lost structure: %+v", sc)
			}
		})
	}
}

func TestContext_UnmarshalInvalid(t *testing.T) {
	var c Context
	if err := json.Unmarshal([]byte(`42`), &c); err == nil {
		t.Error("expected error for a number")
	}
}

func TestToken_KeepsUnknownFields(t *testing.T) {
	data := `{"text":"hi","start_ms":10,"end_ms":20,"confidence":0.5,"is_final":true}`
	var tok Token
	if err := json.Unmarshal([]byte(data), &tok); err != nil {
		t.Fatal(err)
	}
	if tok.Text != "hi" || *tok.StartMs != 10 || *tok.EndMs != 20 {
		t.Errorf("unexpected token: %+v", tok)
	}
	if tok.Extra["is_final"] != true {
		t.Errorf("extra = %v", tok.Extra)
	}

	rec := tok.Record()
	if rec["is_final"] != true {
		t.Error("record should carry unknown fields")
	}
	for _, k := range []string{"speaker", "language", "translation_status"} {
		v, ok := rec[k]
		if !ok || v != nil {
			t.Errorf("record[%s] = %v, %v; want present and nil", k, v, ok)
		}
	}
}

func TestToken_RecordWithoutTimestamps(t *testing.T) {
	rec := Token{Text: "x", Speaker: "2"}.Record()
	if v, ok := rec["start_ms"]; !ok || v != nil {
		t.Errorf("start_ms = %v", v)
	}
	if rec["speaker"] != "2" {
		t.Errorf("speaker = %v", rec["speaker"])
	}
}

func TestNewCreateRequest(t *testing.T) {
	opts := TranscriptionOptions{Model: DefaultModel}
	if _, err := newCreateRequest(opts, "", ""); err == nil {
		t.Error("expected error with no source")
	}
	if _, err := newCreateRequest(opts, "https://example.com/a.mp3", "file-1"); err == nil {
		t.Error("expected error with two sources")
	}
	req, err := newCreateRequest(opts, "", "file-1")
	if err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(req)
	if string(data) != `{"model":"stt-async-v4","file_id":"file-1"}` {
		t.Errorf("unexpected payload: %s", data)
	}
}
