// Package scene guarda o grafo de cena: a coleção de objetos desenhados juntos a cada frame.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Kind identifica como o renderer deve desenhar um nó.
type Kind int

const (
	KindCube  Kind = iota // Cubo com material padrão
	KindPlane             // Plano com material padrão
	KindWater             // Plano de água animada
	KindSky               // Domo do céu
	KindModel             // Modelo carregado do disco/rede
)

func (k Kind) String() string {
	switch k {
	case KindCube:
		return "cube"
	case KindPlane:
		return "plane"
	case KindWater:
		return "water"
	case KindSky:
		return "sky"
	case KindModel:
		return "model"
	}
	return "unknown"
}

// Color é uma cor RGBA 8 bits, independente do renderer.
type Color struct {
	R, G, B, A uint8
}

// Hex cria uma cor opaca a partir de 0xRRGGBB.
func Hex(rgb uint32) Color {
	return Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}

// Node é um objeto desenhável.
type Node struct {
	Name        string
	Kind        Kind
	Position    mgl32.Vec3
	Rotation    mgl32.Vec3 // Euler XYZ em radianos
	Scale       mgl32.Vec3
	Color       Color
	DoubleSided bool

	// Handle é o recurso do renderer (modelo na GPU). Opaco para a cena.
	Handle any
}

// NewNode cria um nó com escala unitária.
func NewNode(name string, kind Kind) *Node {
	return &Node{
		Name:  name,
		Kind:  kind,
		Scale: mgl32.Vec3{1, 1, 1},
		Color: Color{255, 255, 255, 255},
	}
}

// Transform retorna a matriz modelo T * R * S (Euler na ordem XYZ).
func (n *Node) Transform() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := mgl32.AnglesToQuat(n.Rotation.X(), n.Rotation.Y(), n.Rotation.Z(), mgl32.XYZ).Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// Graph é a coleção mutável de nós. Pertence à goroutine principal:
// só o loop de render e o tratamento de eventos do loader mexem nela.
type Graph struct {
	nodes []*Node
}

// NewGraph cria um grafo vazio.
func NewGraph() *Graph {
	return &Graph{nodes: make([]*Node, 0, 8)}
}

// Add liga todos os nós de uma vez: monta a nova lista e só então a publica,
// então quem lê nunca vê uma inserção pela metade.
func (g *Graph) Add(nodes ...*Node) {
	next := make([]*Node, 0, len(g.nodes)+len(nodes))
	next = append(next, g.nodes...)
	for _, n := range nodes {
		if n != nil {
			next = append(next, n)
		}
	}
	g.nodes = next
}

// Find retorna o primeiro nó com o nome dado, ou nil.
func (g *Graph) Find(name string) *Node {
	for _, n := range g.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Has indica se existe um nó com o nome dado.
func (g *Graph) Has(name string) bool {
	return g.Find(name) != nil
}

// Len retorna o número de nós.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes retorna uma cópia da lista de nós, na ordem de inserção.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Names retorna os nomes dos nós na ordem de inserção.
func (g *Graph) Names() []string {
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Name
	}
	return out
}
