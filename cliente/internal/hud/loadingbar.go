// Package hud guarda o estado da interface sobreposta (barra de carregamento e painel de debug).
// O desenho fica no app; aqui não há chamadas raylib.
package hud

import "fmt"

// LoadingBar é o indicador de carregamento do modelo.
type LoadingBar struct {
	ErrorTimeout float64 // Segundos que a mensagem de erro fica na tela; <= 0 = para sempre

	progress float64
	visible  bool
	failed   bool
	message  string
	failedAt float64
}

// NewLoadingBar cria a barra visível em 0%.
func NewLoadingBar(errorTimeout float64) *LoadingBar {
	return &LoadingBar{
		ErrorTimeout: errorTimeout,
		visible:      true,
		message:      "Carregando modelo...",
	}
}

// SetProgress atualiza a fração carregada. Totais desconhecidos (<= 0) são ignorados.
// Ao chegar em 1 a barra some.
func (b *LoadingBar) SetProgress(loaded, total int64) {
	if total <= 0 || b.failed {
		return
	}
	f := float64(loaded) / float64(total)
	if f < 0 {
		f = 0
	}
	if f >= 1 {
		f = 1
		b.visible = false
	}
	b.progress = f
	b.message = fmt.Sprintf("Carregando modelo... %d%%", int(f*100))
}

// Complete esconde a barra.
func (b *LoadingBar) Complete() {
	b.progress = 1
	b.visible = false
	b.failed = false
}

// Fail troca a barra pela mensagem de erro; Update a esconde depois de ErrorTimeout.
func (b *LoadingBar) Fail(err error, now float64) {
	b.failed = true
	b.visible = true
	b.failedAt = now
	b.message = fmt.Sprintf("Falha ao carregar modelo: %v", err)
}

// Update avança o estado temporal da barra (só o erro expira).
func (b *LoadingBar) Update(now float64) {
	if !b.failed || !b.visible || b.ErrorTimeout <= 0 {
		return
	}
	if now-b.failedAt >= b.ErrorTimeout {
		b.visible = false
	}
}

func (b *LoadingBar) Progress() float64 { return b.progress }
func (b *LoadingBar) Visible() bool { return b.visible }
func (b *LoadingBar) Failed() bool { return b.failed }
func (b *LoadingBar) Message() string { return b.message }
