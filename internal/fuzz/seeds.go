package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds cover declaration shapes the parser recovers from.
var languageSeeds = []string{
	"protocol P {}",
	"protocol A: class, B, C {}",
	"struct S { var a: Int { get set } }",
	"class C: , Base {",
	"enum E { case a(Int), b }",
	"extension Array where Element == Int { func sum() -> Int }",
	"func f<T>(_ a: [T: Int]?, b c: (Int) throws -> Void...) async rethrows -> T! {}",
	"init?(x: inout Int = 1) throws",
	"typealias Pair<T> = (first: T, second: T)",
	"var a: (x: Int, (String)) = (1, \"\\(a)\")",
	"struct S { struct T { struct U { func f() } } }",
	"@objc public final class X: NSObject { @IBOutlet weak var v: UIView! }",
	"let s = #\"raw \\#(x) \"# ; /* unterminated",
	"protocol P { func f() -> [[String: Int?]]? ; var x: Int { get }",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "swift")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// ошибки обхода не фатальны: корпус лишь дополняет встроенные фрагменты
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".swift" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

// clamp copies src, cut to at most n bytes.
func clamp(src []byte, n int) []byte {
	if len(src) <= n {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:n]...)
}
