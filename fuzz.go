package rtf

func Fuzz(data []byte) int {
	doc, err := ParseBytes(data, &Options{})
	if err != nil {
		return 0
	}
	_ = doc.PlainText()
	_ = doc.TextRuns()
	return 1
}
