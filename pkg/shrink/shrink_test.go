package shrink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// noisyPNG writes a PNG full of random noise, which compresses poorly.
func noisyPNG(t *testing.T, path string, w int, h int) {
	t.Helper()
	rnd := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: 255,
			})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func testOptions(t *testing.T) *Options {
	t.Helper()
	return &Options{
		SrcDir:      filepath.Join(t.TempDir(), "src"),
		DstDir:      filepath.Join(t.TempDir(), "dst"),
		LimitBytes:  5 * 1024 * 1024,
		MinSide:     8,
		Orientation: Auto,
	}
}

func TestRun_MissingSource(t *testing.T) {
	o := testOptions(t)
	if _, err := Run(o); err == nil {
		t.Error("expected error for a missing source directory")
	}
}

func TestRun_CopiesNonImage(t *testing.T) {
	o := testOptions(t)
	src := filepath.Join(o.SrcDir, "docs", "notes.txt")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := Run(o)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.Total != 1 || st.OK != 1 || st.Failed != 0 {
		t.Errorf("stats = %+v, want 1 total / 1 ok", st)
	}

	got, err := os.ReadFile(filepath.Join(o.DstDir, "docs", "notes.txt"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("copy not byte-identical: %q", got)
	}
}

func TestRun_CopiesUnderLimit(t *testing.T) {
	o := testOptions(t)
	noisyPNG(t, filepath.Join(o.SrcDir, "trip", "small.png"), 16, 16)

	st, err := Run(o)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.OK != 1 {
		t.Fatalf("stats = %+v, want 1 ok", st)
	}

	// under the limit, the file keeps its name and bytes
	src, err := os.ReadFile(filepath.Join(o.SrcDir, "trip", "small.png"))
	if err != nil {
		t.Fatal(err)
	}
	dst, err := os.ReadFile(filepath.Join(o.DstDir, "trip", "small.png"))
	if err != nil {
		t.Fatalf("pass-through file missing: %v", err)
	}
	if !bytes.Equal(src, dst) {
		t.Error("pass-through copy not byte-identical")
	}
}

func TestRun_ShrinksOverLimit(t *testing.T) {
	o := testOptions(t)
	o.LimitBytes = 2 * 1024
	noisyPNG(t, filepath.Join(o.SrcDir, "trip", "big.png"), 128, 128)

	st, err := Run(o)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.Failed != 0 {
		t.Fatalf("stats = %+v, want no failures", st)
	}

	out := filepath.Join(o.DstDir, "trip", "big.jpg")
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatalf("expected %s: %v", out, err)
	}
	if fi.Size() == 0 {
		t.Error("empty output")
	}
	if _, err := os.Stat(filepath.Join(o.DstDir, "trip", "big.png")); !os.IsNotExist(err) {
		t.Error("oversized png should only exist as a jpg in the output")
	}
}

func TestRun_CorruptImageCounted(t *testing.T) {
	o := testOptions(t)
	o.LimitBytes = 4
	bad := filepath.Join(o.SrcDir, "bad.jpg")
	if err := os.MkdirAll(o.SrcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := Run(o)
	if err != nil {
		t.Fatalf("per-file failures must not abort the walk: %v", err)
	}
	if st.Failed != 1 {
		t.Errorf("stats = %+v, want 1 failed", st)
	}
}

func TestEncodeUnderLimit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))

	bs, err := encodeUnderLimit(img, 1024*1024, 8)
	if err != nil {
		t.Fatalf("encodeUnderLimit: %v", err)
	}
	if int64(len(bs)) > 1024*1024 {
		t.Errorf("result over limit: %d bytes", len(bs))
	}

	// with an absurd limit the best effort result is still returned
	bs, err = encodeUnderLimit(img, 1, 8)
	if err != nil {
		t.Fatalf("encodeUnderLimit: %v", err)
	}
	if len(bs) == 0 {
		t.Error("expected best-effort bytes for an unreachable limit")
	}
}
