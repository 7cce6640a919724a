package loader

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// makeGLB monta um GLB mínimo: cabeçalho, chunk JSON e um chunk BIN de binSize bytes.
func makeGLB(doc string, binSize int) []byte {
	for len(doc)%4 != 0 {
		doc += " "
	}
	total := glbHeaderLen + glbChunkHead + len(doc)
	if binSize > 0 {
		total += glbChunkHead + binSize
	}

	out := make([]byte, 0, total)
	out = binary.LittleEndian.AppendUint32(out, glbMagic)
	out = binary.LittleEndian.AppendUint32(out, glbVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(doc)))
	out = binary.LittleEndian.AppendUint32(out, glbChunkJSON)
	out = append(out, doc...)
	if binSize > 0 {
		out = binary.LittleEndian.AppendUint32(out, uint32(binSize))
		out = binary.LittleEndian.AppendUint32(out, 0x004E4942) // "BIN\0"
		out = append(out, make([]byte, binSize)...)
	}
	return out
}

const validDoc = `{"asset":{"version":"2.0"}}`

// collect lê eventos até o desfecho final.
func collect(t *testing.T, l *Loader) (progress []Progress, final Event) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-l.Events():
			switch ev.Kind {
			case EventProgress:
				progress = append(progress, ev.Progress)
			default:
				return progress, ev
			}
		case <-timeout:
			t.Fatalf("nenhum desfecho em 5s")
		}
	}
}

func serve(t *testing.T, name string, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/"+name {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"second.glb", FormatGLB},
		{"MODEL.GLB", FormatGLB},
		{"scene.gltf", FormatGLTF},
		{"http://host/a/second.glb?v=2", FormatGLB},
		{"waternormals.jpg", FormatOther},
		{"semextensao", FormatOther},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.name); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		base, p, want string
	}{
		{"http://localhost:8080/assets", "second.glb", "http://localhost:8080/assets/second.glb"},
		{"http://localhost:8080", "models/second.glb", "http://localhost:8080/models/second.glb"},
		{"http://localhost:8080/assets", "https://cdn.example.com/x.glb", "https://cdn.example.com/x.glb"},
		{dir, "second.glb", filepath.Join(dir, "second.glb")},
		{"", "second.glb", "second.glb"},
	}
	for _, tt := range tests {
		l := New(tt.base, t.TempDir(), 0)
		if got := l.Resolve(tt.p); got != tt.want {
			t.Errorf("Resolve(%q) com base %q = %q, want %q", tt.p, tt.base, got, tt.want)
		}
	}
}

func TestProgressFraction(t *testing.T) {
	tests := []struct {
		p    Progress
		want float64
	}{
		{Progress{Loaded: 50, Total: 200}, 0.25},
		{Progress{Loaded: 200, Total: 200}, 1},
		{Progress{Loaded: 10, Total: 0}, 0},
		{Progress{Loaded: 10, Total: -1}, 0},
		{Progress{Loaded: 300, Total: 200}, 1},
	}
	for _, tt := range tests {
		if got := tt.p.Fraction(); got != tt.want {
			t.Errorf("%+v.Fraction() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestLoadHTTPReportsProgress(t *testing.T) {
	body := makeGLB(validDoc, 200*1024)
	srv := serve(t, "second.glb", body)
	cache := t.TempDir()

	l := New(srv.URL, cache, 0)
	l.Load(context.Background(), "second.glb")
	progress, final := collect(t, l)

	if final.Kind != EventSuccess {
		t.Fatalf("esperado sucesso, obtido %v (%v)", final.Kind, final.Err)
	}
	if len(progress) == 0 {
		t.Fatalf("nenhum evento de progresso")
	}

	var last int64
	for _, p := range progress {
		if p.Total != int64(len(body)) {
			t.Errorf("Total = %d, want %d", p.Total, len(body))
		}
		if p.Loaded < last {
			t.Errorf("progresso regrediu: %d depois de %d", p.Loaded, last)
		}
		last = p.Loaded
	}
	if last != int64(len(body)) {
		t.Errorf("último progresso = %d, want %d", last, len(body))
	}

	frag := final.Fragment
	if frag.Format != FormatGLB || frag.Size != int64(len(body)) {
		t.Errorf("fragmento = %+v", frag)
	}
	if filepath.Dir(frag.LocalPath) != cache || filepath.Base(frag.LocalPath) != "second.glb" {
		t.Errorf("LocalPath = %q, want dentro de %q", frag.LocalPath, cache)
	}
	data, err := os.ReadFile(frag.LocalPath)
	if err != nil || len(data) != len(body) {
		t.Errorf("cache com %d bytes (err %v), want %d", len(data), err, len(body))
	}
}

func TestLoadHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quebrado.glb":
			http.Error(w, "falhou", http.StatusInternalServerError)
		case "/invalido.glb":
			w.Write([]byte("isto não é um GLB"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		want error
	}{
		{"ausente.glb", ErrNotFound},
		{"quebrado.glb", ErrBadStatus},
		{"invalido.glb", ErrInvalidAsset},
	}
	for _, tt := range tests {
		cache := t.TempDir()
		l := New(srv.URL, cache, 0)
		l.Load(context.Background(), tt.name)
		_, final := collect(t, l)

		if final.Kind != EventFailure {
			t.Errorf("%s: esperado falha, obtido %v", tt.name, final.Kind)
			continue
		}
		if !errors.Is(final.Err, tt.want) {
			t.Errorf("%s: erro = %v, want %v", tt.name, final.Err, tt.want)
		}
		if entries, _ := os.ReadDir(cache); len(entries) != 0 {
			t.Errorf("%s: cache deveria ficar vazio, tem %d arquivos", tt.name, len(entries))
		}
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	body := makeGLB(validDoc, 1024)
	path := filepath.Join(dir, "second.glb")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}

	l := New(dir, t.TempDir(), 0)
	l.Load(context.Background(), "second.glb")
	progress, final := collect(t, l)

	if final.Kind != EventSuccess {
		t.Fatalf("esperado sucesso, obtido %v (%v)", final.Kind, final.Err)
	}
	if final.Fragment.LocalPath != path {
		t.Errorf("LocalPath = %q, want %q", final.Fragment.LocalPath, path)
	}
	if n := len(progress); n == 0 || progress[n-1].Fraction() != 1 {
		t.Errorf("progresso final deveria ser 1, eventos = %+v", progress)
	}
}

func TestLoadFromDiskMissing(t *testing.T) {
	l := New(t.TempDir(), t.TempDir(), 0)
	l.Load(context.Background(), "second.glb")
	_, final := collect(t, l)

	if final.Kind != EventFailure || !errors.Is(final.Err, ErrNotFound) {
		t.Errorf("desfecho = %v (%v), want falha ErrNotFound", final.Kind, final.Err)
	}
}

func TestLoadCanceled(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "second.glb"), makeGLB(validDoc, 0), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(dir, t.TempDir(), 0)
	l.Load(ctx, "second.glb")
	_, final := collect(t, l)

	if final.Kind != EventFailure || !errors.Is(final.Err, ErrCanceled) {
		t.Errorf("desfecho = %v (%v), want falha ErrCanceled", final.Kind, final.Err)
	}
}

func TestValidators(t *testing.T) {
	good := makeGLB(validDoc, 16)

	badMagic := append([]byte(nil), good...)
	badMagic[0] = 'x'

	badVersion := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(badVersion[4:], 1)

	badLength := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(badLength[8:], uint32(len(good)+4))

	tests := []struct {
		name   string
		format Format
		data   []byte
		ok     bool
	}{
		{"glb válido", FormatGLB, good, true},
		{"glb assinatura", FormatGLB, badMagic, false},
		{"glb versão", FormatGLB, badVersion, false},
		{"glb tamanho", FormatGLB, badLength, false},
		{"glb truncado", FormatGLB, good[:8], false},
		{"glb gltf 1.0", FormatGLB, makeGLB(`{"asset":{"version":"1.0"}}`, 0), false},
		{"gltf válido", FormatGLTF, []byte(validDoc), true},
		{"gltf sem asset", FormatGLTF, []byte(`{"scenes":[]}`), false},
		{"gltf lixo", FormatGLTF, []byte("<html>"), false},
		{"outro", FormatOther, []byte("qualquer coisa"), true},
	}
	for _, tt := range tests {
		v := newValidator(tt.format)
		// Em pedaços pequenos, como chega da rede
		for i := 0; i < len(tt.data); i += 7 {
			end := i + 7
			if end > len(tt.data) {
				end = len(tt.data)
			}
			v.Write(tt.data[i:end])
		}
		err := v.Finish(int64(len(tt.data)))
		if tt.ok && err != nil {
			t.Errorf("%s: erro inesperado %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidAsset) {
			t.Errorf("%s: erro = %v, want ErrInvalidAsset", tt.name, err)
		}
	}
}

func TestLoadDoesNotBlockAfterCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "second.glb"), makeGLB(validDoc, 64), 0644); err != nil {
		t.Fatal(err)
	}

	l := New(dir, t.TempDir(), 0)
	l.events = make(chan Event) // Ninguém drena: todo envio bloqueante fica preso

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.run(ctx, l.Resolve("second.glb"))
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("a goroutine do loader continuou presa depois do cancelamento")
	}
}

func TestFetch(t *testing.T) {
	body := []byte("jpeg de teste")

	srv := serve(t, "textures/waternormals.jpg", body)
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "textures"), 0755); err != nil {
		t.Fatal(err)
	}
	local := filepath.Join(dir, "textures", "waternormals.jpg")
	if err := os.WriteFile(local, body, 0644); err != nil {
		t.Fatal(err)
	}
	cache := t.TempDir()

	tests := []struct {
		name     string
		base     string
		wantPath string
	}{
		{"base remota vai para o cache", srv.URL, filepath.Join(cache, "waternormals.jpg")},
		{"base local usa o arquivo no lugar", dir, local},
	}

	for _, tt := range tests {
		l := New(tt.base, cache, 0)
		frag, err := l.Fetch(context.Background(), "textures/waternormals.jpg")
		if err != nil {
			t.Fatalf("%s: Fetch: %v", tt.name, err)
		}
		if frag.LocalPath != tt.wantPath {
			t.Errorf("%s: LocalPath = %q, want %q", tt.name, frag.LocalPath, tt.wantPath)
		}
		got, err := os.ReadFile(frag.LocalPath)
		if err != nil || string(got) != string(body) {
			t.Errorf("%s: conteúdo = %q (%v)", tt.name, got, err)
		}
		if n := len(l.Events()); n != 0 {
			t.Errorf("%s: Fetch não deveria emitir eventos, %d no canal", tt.name, n)
		}
	}

	l := New(srv.URL, cache, 0)
	if _, err := l.Fetch(context.Background(), "textures/missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch de arquivo ausente: err = %v, want ErrNotFound", err)
	}
}
