package render

import (
	"OceanTrailer/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// toMatrix converte coluna a coluna: mgl32 e raylib guardam a matriz na mesma ordem de memória.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func colorVec3(c scene.Color) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func colorVec4(c scene.Color) mgl32.Vec4 {
	return colorVec3(c).Vec4(float32(c.A) / 255)
}

// Uniforms ausentes (loc -1) são ignorados pelo raylib.
func setFloat(shader rl.Shader, loc int32, v float32) {
	rl.SetShaderValue(shader, loc, []float32{v}, rl.ShaderUniformFloat)
}

func setVec3(shader rl.Shader, loc int32, v mgl32.Vec3) {
	rl.SetShaderValue(shader, loc, v[:], rl.ShaderUniformVec3)
}

func setVec4(shader rl.Shader, loc int32, v mgl32.Vec4) {
	rl.SetShaderValue(shader, loc, v[:], rl.ShaderUniformVec4)
}
