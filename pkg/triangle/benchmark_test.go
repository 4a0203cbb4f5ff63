package triangle

import "testing"

func BenchmarkClassify(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Classify("3", "4", "5")
	}
}

func BenchmarkClassifyParseFailure(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Classify("abc", "4", "5")
	}
}
