package text

import (
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

func runeSplice(s string, begin, end int64, insert string) string {
	rs := []rune(s)
	return string(rs[:begin]) + insert + string(rs[end:])
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "hello"},
		{"unicode", "héllo wörld 日本語 🎉"},
		{"exactly one chunk", strings.Repeat("a", maxChunkSize)},
		{"many chunks", strings.Repeat("abcdefghij", 200)},
		{"multibyte at boundaries", strings.Repeat("é", 300)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromString(tt.input)
			if got := b.String(); got != tt.input {
				t.Errorf("String() mismatch: %d bytes, want %d", len(got), len(tt.input))
			}
			if got, want := b.Len(), int64(utf8.RuneCountInString(tt.input)); got != want {
				t.Errorf("Len() = %d, want %d", got, want)
			}
			if got := b.ByteLen(); got != int64(len(tt.input)) {
				t.Errorf("ByteLen() = %d, want %d", got, len(tt.input))
			}
		})
	}
}

func TestChunkifyBounds(t *testing.T) {
	for _, c := range chunkify(strings.Repeat("é", 1000)) {
		if len(c.s) == 0 || len(c.s) > maxChunkSize {
			t.Fatalf("chunk of %d bytes outside (0, %d]", len(c.s), maxChunkSize)
		}
		if !utf8.ValidString(c.s) {
			t.Fatal("chunk split a rune")
		}
	}
}

func TestInsert(t *testing.T) {
	long := strings.Repeat("0123456789", 60)
	tests := []struct {
		name    string
		initial string
		at      int64
		insert  string
	}{
		{"into empty", "", 0, "hello"},
		{"at start", "world", 0, "hello "},
		{"at end", "hello", 5, " world"},
		{"in middle", "hello world", 5, ","},
		{"unicode offset", "日本語", 2, "の"},
		{"grow past chunk", strings.Repeat("x", maxChunkSize-2), 100, "yyyy"},
		{"long insert", "ab", 1, long},
		{"into long", long, 300, "MID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromString(tt.initial)
			b.Insert(tt.at, tt.insert)
			want := runeSplice(tt.initial, tt.at, tt.at, tt.insert)
			if got := b.String(); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
			if got, want := b.Len(), int64(utf8.RuneCountInString(want)); got != want {
				t.Errorf("Len() = %d, want %d", got, want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	long := strings.Repeat("0123456789", 60)
	tests := []struct {
		name    string
		initial string
		begin   int64
		end     int64
	}{
		{"prefix", "hello world", 0, 6},
		{"suffix", "hello world", 5, 11},
		{"middle", "hello world", 2, 8},
		{"nothing", "hello", 2, 2},
		{"all", "hello", 0, 5},
		{"unicode", "日本語です", 1, 3},
		{"across chunks", long, 100, 500},
		{"entire long", long, 0, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromString(tt.initial)
			b.Delete(tt.begin, tt.end)
			want := runeSplice(tt.initial, tt.begin, tt.end, "")
			if got := b.String(); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	src := strings.Repeat("0123456789", 60) + "日本語"
	b := FromString(src)
	rs := []rune(src)
	tests := []struct{ begin, end int64 }{
		{0, 0}, {0, 10}, {5, 5}, {0, int64(len(rs))},
		{100, 400}, {599, 603}, {600, 603},
	}
	for _, tt := range tests {
		want := string(rs[tt.begin:tt.end])
		if got := b.Slice(tt.begin, tt.end); got != want {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.begin, tt.end, got, want)
		}
	}
}

func TestRuneAt(t *testing.T) {
	src := "aé日🎉z"
	b := FromString(src)
	for i, want := range []rune(src) {
		if got := b.RuneAt(int64(i)); got != want {
			t.Errorf("RuneAt(%d) = %q, want %q", i, got, want)
		}
	}
}

func TestReader(t *testing.T) {
	src := strings.Repeat("chunky text ", 100)
	b := FromString(src)
	got, err := io.ReadAll(b.Reader())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != src {
		t.Errorf("reader returned %d bytes, want %d", len(got), len(src))
	}
}

func TestSequentialEdits(t *testing.T) {
	b := New()
	ref := ""
	steps := []struct {
		at     int64
		del    int64
		insert string
	}{
		{0, 0, "hello world"},
		{5, 0, ","},
		{0, 0, ">> "},
		{3, 5, "HELLO"},
		{int64(len(">> HELLO, world")), 0, strings.Repeat("!", 500)},
		{10, 400, ""},
	}
	for i, st := range steps {
		b.Delete(st.at, st.at+st.del)
		ref = runeSplice(ref, st.at, st.at+st.del, "")
		b.Insert(st.at, st.insert)
		ref = runeSplice(ref, st.at, st.at, st.insert)
		if got := b.String(); got != ref {
			t.Fatalf("step %d: got %q, want %q", i, got, ref)
		}
	}
}

func TestOutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Buffer)
	}{
		{"insert past end", func(b *Buffer) { b.Insert(6, "x") }},
		{"negative insert", func(b *Buffer) { b.Insert(-1, "x") }},
		{"delete past end", func(b *Buffer) { b.Delete(0, 6) }},
		{"reversed delete", func(b *Buffer) { b.Delete(3, 1) }},
		{"rune at end", func(b *Buffer) { b.RuneAt(5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn(FromString("hello"))
		})
	}
}

func FuzzEdits(f *testing.F) {
	f.Add("hello world", 3, 2, "xyz")
	f.Add("", 0, 0, "abc")
	f.Add("日本語テキスト", 2, 3, "é")

	f.Fuzz(func(t *testing.T, doc string, at, del int, insert string) {
		if !utf8.ValidString(doc) || !utf8.ValidString(insert) {
			return
		}
		b := FromString(doc)
		rs := []rune(doc)

		n := len(rs) + 1
		at = ((at % n) + n) % n
		m := len(rs) - at + 1
		del = ((del % m) + m) % m

		b.Delete(int64(at), int64(at+del))
		b.Insert(int64(at), insert)
		want := runeSplice(doc, int64(at), int64(at+del), insert)
		if got := b.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
