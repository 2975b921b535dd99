package keyboard

import "testing"

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback(EncodeCallback(ActionDownload, "pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if cb.Action != ActionDownload || cb.Value != "pdf" {
		t.Errorf("got %+v", cb)
	}

	for _, data := range []string{"", "dl", ":pdf"} {
		if _, err := ParseCallback(data); err == nil {
			t.Errorf("ParseCallback(%q) expected error", data)
		}
	}
}

func TestAnswerKeyboardButtons(t *testing.T) {
	kb := NewBuilder().AnswerKeyboard()
	if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 3 {
		t.Fatalf("unexpected layout: %+v", kb.InlineKeyboard)
	}
	for _, btn := range kb.InlineKeyboard[0] {
		if btn.CallbackData == nil {
			t.Fatalf("button %q has no callback data", btn.Text)
		}
		if cb, err := ParseCallback(*btn.CallbackData); err != nil || cb.Action != ActionDownload {
			t.Errorf("button %q: %v %+v", btn.Text, err, cb)
		}
	}
}
