// Package loader busca o modelo 3D em segundo plano (HTTP ou disco) sem travar o loop de render.
// O resultado chega como eventos num canal que o loop drena sem bloquear.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("asset não encontrado")
	ErrBadStatus    = errors.New("resposta HTTP inesperada")
	ErrInvalidAsset = errors.New("asset inválido")
	ErrCanceled     = errors.New("carregamento cancelado")
)

// EventKind diferencia os três desfechos observáveis de um carregamento.
type EventKind int

const (
	EventProgress EventKind = iota
	EventSuccess
	EventFailure
)

// Event é uma notificação do loader.
// Progress vem zero ou mais vezes; depois exatamente um Success ou Failure.
type Event struct {
	Kind     EventKind
	Source   string
	Progress Progress
	Fragment Fragment
	Err      error
}

// Progress é o andamento da transferência.
type Progress struct {
	Loaded int64
	Total  int64 // <= 0 quando desconhecido
}

// Fraction retorna Loaded/Total em [0,1], ou 0 se o total for desconhecido.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Loaded) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Fragment é o asset já disponível localmente, pronto para o renderer carregar.
type Fragment struct {
	Source    string // Caminho/URL pedido
	LocalPath string // Arquivo no disco
	Size      int64
	Format    Format
}

// Loader busca assets relativos a uma base (URL http(s) ou diretório).
type Loader struct {
	base     string
	cacheDir string
	client   *http.Client
	events   chan Event
}

// New cria um loader. timeout 0 deixa o limite por conta do transporte.
func New(base, cacheDir string, timeout time.Duration) *Loader {
	return &Loader{
		base:     base,
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: timeout},
		events:   make(chan Event, 64),
	}
}

// Events retorna o canal de eventos. Nunca é fechado.
func (l *Loader) Events() <-chan Event {
	return l.events
}

// Resolve junta p à base configurada, a menos que p já seja absoluto (URL ou caminho).
func (l *Loader) Resolve(p string) string {
	if isRemote(p) || filepath.IsAbs(p) || l.base == "" {
		return p
	}
	if isRemote(l.base) {
		u, err := url.Parse(l.base)
		if err != nil {
			return p
		}
		u.Path = path.Join("/", u.Path, p)
		return u.String()
	}
	return filepath.Join(l.base, p)
}

// Load inicia o carregamento e retorna imediatamente.
func (l *Loader) Load(ctx context.Context, p string) {
	source := l.Resolve(p)
	log.Printf("[Loader] Iniciando carregamento: %s", source)
	go l.run(ctx, source)
}

// Fetch busca p de forma síncrona, sem eventos; serve para assets auxiliares como texturas.
// Com base remota o arquivo vai para o cache local.
func (l *Loader) Fetch(ctx context.Context, p string) (Fragment, error) {
	return l.fetch(ctx, l.Resolve(p), false)
}

func (l *Loader) run(ctx context.Context, source string) {
	frag, err := l.fetch(ctx, source, true)
	if err != nil {
		l.send(ctx, Event{Kind: EventFailure, Source: source, Err: err})
		return
	}
	log.Printf("[Loader] Asset pronto: %s (%d bytes, %s)", frag.LocalPath, frag.Size, frag.Format)
	l.send(ctx, Event{Kind: EventSuccess, Source: source, Fragment: frag})
}

func (l *Loader) fetch(ctx context.Context, source string, report bool) (Fragment, error) {
	if isRemote(source) {
		return l.fetchHTTP(ctx, source, report)
	}
	return l.readFile(ctx, source, report)
}

// send entrega o evento se houver espaço no canal; senão bloqueia até o loop
// recebê-lo ou o contexto ser cancelado.
func (l *Loader) send(ctx context.Context, ev Event) bool {
	select {
	case l.events <- ev:
		return true
	default:
	}
	select {
	case l.events <- ev:
		return true
	case <-ctx.Done():
		log.Printf("[Loader] Evento descartado (%v): %s", ctx.Err(), ev.Source)
		return false
	}
}

func (l *Loader) readFile(ctx context.Context, source string, report bool) (Fragment, error) {
	f, err := os.Open(source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Fragment{}, fmt.Errorf("%w: %s", ErrNotFound, source)
		}
		return Fragment{}, fmt.Errorf("falha ao abrir %s: %w", source, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Fragment{}, fmt.Errorf("falha ao ler %s: %w", source, err)
	}

	format := DetectFormat(source)
	v := newValidator(format)
	n, err := l.copyWithProgress(ctx, v, f, source, info.Size(), report)
	if err != nil {
		return Fragment{}, err
	}
	if err := v.Finish(n); err != nil {
		return Fragment{}, fmt.Errorf("%s: %w", source, err)
	}

	return Fragment{Source: source, LocalPath: source, Size: n, Format: format}, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, source string, report bool) (Fragment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return Fragment{}, fmt.Errorf("requisição inválida para %s: %w", source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Fragment{}, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		}
		return Fragment{}, fmt.Errorf("falha ao buscar %s: %w", source, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Fragment{}, fmt.Errorf("%w: %s", ErrNotFound, source)
	case resp.StatusCode != http.StatusOK:
		return Fragment{}, fmt.Errorf("%w: %s (%s)", ErrBadStatus, resp.Status, source)
	}

	if err := os.MkdirAll(l.cacheDir, 0755); err != nil {
		return Fragment{}, fmt.Errorf("falha ao criar cache %s: %w", l.cacheDir, err)
	}

	// URL final, depois de redirecionamentos
	name := path.Base(resp.Request.URL.Path)
	format := DetectFormat(name)

	tmp, err := os.CreateTemp(l.cacheDir, "download-*"+path.Ext(name))
	if err != nil {
		return Fragment{}, fmt.Errorf("falha ao criar arquivo no cache: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	v := newValidator(format)
	n, err := l.copyWithProgress(ctx, io.MultiWriter(tmp, v), resp.Body, source, resp.ContentLength, report)
	if err != nil {
		cleanup()
		return Fragment{}, err
	}
	if err := v.Finish(n); err != nil {
		cleanup()
		return Fragment{}, fmt.Errorf("%s: %w", source, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return Fragment{}, fmt.Errorf("falha ao gravar cache: %w", err)
	}

	// Nome final estável para o raylib reconhecer a extensão
	final := filepath.Join(l.cacheDir, name)
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return Fragment{}, fmt.Errorf("falha ao mover %s para o cache: %w", name, err)
	}

	return Fragment{Source: source, LocalPath: final, Size: n, Format: format}, nil
}

// copyWithProgress copia src para dst. Com report, emite um evento de progresso a cada bloco lido.
func (l *Loader) copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, source string, total int64, report bool) (int64, error) {
	buf := make([]byte, 32*1024)
	var loaded int64
	sent := true
	for {
		if ctx.Err() != nil {
			return loaded, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return loaded, fmt.Errorf("falha ao gravar %s: %w", source, werr)
			}
			loaded += int64(n)
			if report {
				sent = l.emitProgress(source, Progress{Loaded: loaded, Total: total})
			}
		}
		if rerr == io.EOF {
			if !sent {
				// O último progresso sempre chega, mesmo que os intermediários tenham sido descartados
				if !l.send(ctx, Event{Kind: EventProgress, Source: source, Progress: Progress{Loaded: loaded, Total: total}}) {
					return loaded, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
				}
			}
			return loaded, nil
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return loaded, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
			}
			return loaded, fmt.Errorf("falha ao ler %s: %w", source, rerr)
		}
	}
}

// emitProgress não bloqueia: se o loop estiver atrasado, o progresso intermediário é descartado.
// Success/Failure só se perdem se o contexto for cancelado (ver send).
func (l *Loader) emitProgress(source string, p Progress) bool {
	select {
	case l.events <- Event{Kind: EventProgress, Source: source, Progress: p}:
		return true
	default:
		return false
	}
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
