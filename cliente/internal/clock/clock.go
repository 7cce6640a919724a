// Package clock fornece fontes de tempo monotônicas consultadas uma vez por frame.
package clock

// Clock retorna o tempo decorrido, em segundos, desde que o relógio começou.
// As leituras nunca diminuem.
type Clock interface {
	Elapsed() float64
}

// Manual é um relógio avançado explicitamente, usado nos testes.
type Manual struct {
	now float64
}

// Set define o tempo atual. Valores menores que o atual são ignorados.
func (m *Manual) Set(t float64) {
	if t > m.now {
		m.now = t
	}
}

// Advance avança o relógio em dt segundos (dt negativo é ignorado).
func (m *Manual) Advance(dt float64) {
	if dt > 0 {
		m.now += dt
	}
}

func (m *Manual) Elapsed() float64 {
	return m.now
}
