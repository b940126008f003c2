package security

import (
	"strings"
	"testing"
)

// TestSanitize_RemovesHTMLTags はHTMLタグが除去されることを検証する。
func TestSanitize_RemovesHTMLTags(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "太字タグを除去しテキストを残す",
			input: "<b>事務用品</b>の購入",
			want:  "事務用品の購入",
		},
		{
			name:  "リンクタグを除去しテキストを残す",
			input: `<a href="https://example.com">請求書</a>発行`,
			want:  "請求書発行",
		},
		{
			name:  "段落タグを除去しテキストを残す",
			input: "<p>クラウドサービス利用料</p>",
			want:  "クラウドサービス利用料",
		},
		{
			name:  "入れ子のタグをすべて除去する",
			input: "<div><span>交通費</span>（電車）</div>",
			want:  "交通費（電車）",
		},
		{
			name:  "画像タグを除去する",
			input: `領収書<img src="https://example.com/receipt.png">あり`,
			want:  "領収書あり",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_RemovesDangerousContent は危険な要素が内容ごと除去されることを検証する。
func TestSanitize_RemovesDangerousContent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "scriptタグは内容ごと除去される",
			input: "<script>alert('xss')</script>消耗品",
			want:  "消耗品",
		},
		{
			name:  "styleタグは内容ごと除去される",
			input: "<style>body { display: none; }</style>会議費",
			want:  "会議費",
		},
		{
			name:  "イベントハンドラ付きタグを除去する",
			input: `<img src="x" onerror="alert(1)">備品`,
			want:  "備品",
		},
		{
			name:  "javascriptリンクを除去しテキストを残す",
			input: `<a href="javascript:alert(1)">クリック</a>`,
			want:  "クリック",
		},
		{
			name:  "iframeタグを除去する",
			input: `<iframe src="https://evil.example.com"></iframe>外注費`,
			want:  "外注費",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_PlainText はタグを含まないテキストが変更されないことを検証する。
func TestSanitize_PlainText(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "日本語のテキストはそのまま返される",
			input: "山田商事への支払い",
			want:  "山田商事への支払い",
		},
		{
			name:  "英数字と記号はそのまま返される",
			input: "AWS利用料 2025-03分 #1234",
			want:  "AWS利用料 2025-03分 #1234",
		},
		{
			name:  "空文字列は空文字列を返す",
			input: "",
			want:  "",
		},
		{
			name:  "空白のみの入力は空文字列を返す",
			input: "   ",
			want:  "",
		},
		{
			name:  "前後の空白が除去される",
			input: "  タクシー代  ",
			want:  "タクシー代",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_SpecialCharacters は特殊文字がHTMLエンティティとして保持されることを検証する。
func TestSanitize_SpecialCharacters(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "アンパサンドはエンティティに変換される",
			input: "A & B 商会",
			want:  "A &amp; B 商会",
		},
		{
			name:  "既存のエンティティは二重エスケープされない",
			input: "A &amp; B 商会",
			want:  "A &amp; B 商会",
		},
		{
			name:  "不等号はエンティティに変換される",
			input: "単価 < 1000円",
			want:  "単価 &lt; 1000円",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_Idempotent は同じ入力を2回サニタイズしても結果が変わらないことを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	inputs := []string{
		"<script>alert(1)</script>雑費",
		"A & B 商会",
		"<b>仕入</b>先への支払い",
		"  通常のテキスト  ",
	}

	for _, input := range inputs {
		once := sanitizer.Sanitize(input)
		twice := sanitizer.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize が冪等ではありません: 1回目 %q, 2回目 %q", once, twice)
		}
	}
}

// TestSanitize_LongInput は長い入力でも正しく処理されることを検証する。
func TestSanitize_LongInput(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := strings.Repeat("<b>あ</b>", 1000)
	want := strings.Repeat("あ", 1000)

	got := sanitizer.Sanitize(input)
	if got != want {
		t.Errorf("長い入力の処理結果が期待値と異なります: 長さ got %d, want %d", len(got), len(want))
	}
}

// TestNewTextSanitizer_ImplementsInterface はTextSanitizerServiceインターフェースを満たすことを検証する。
func TestNewTextSanitizer_ImplementsInterface(t *testing.T) {
	var _ TextSanitizerService = NewTextSanitizer()
}
