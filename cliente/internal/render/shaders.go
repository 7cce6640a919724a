package render

// Trechos GLSL compartilhados. Os shaders finais são montados por concatenação.

// Mapeamento direção <-> coordenada equiretangular do mapa de ambiente.
// Render textures saem invertidas em Y, por isso o 1.0 - v na consulta.
const equirectGLSL = `
const float PI = 3.141592653589793;

vec2 dirToEquirect(vec3 d) {
    d = normalize(d);
    float u = atan(d.z, d.x) / (2.0 * PI) + 0.5;
    float v = acos(clamp(d.y, -1.0, 1.0)) / PI;
    return vec2(u, 1.0 - v);
}

vec3 equirectToDir(vec2 uv) {
    float phi = (uv.x - 0.5) * 2.0 * PI;
    float theta = uv.y * PI;
    return vec3(sin(theta) * cos(phi), cos(theta), sin(theta) * sin(phi));
}
`

// ACES filmic + saída sRGB aproximada.
const toneMappingGLSL = `
vec3 RRTAndODTFit(vec3 v) {
    vec3 a = v * (v + 0.0245786) - 0.000090537;
    vec3 b = v * (0.983729 * v + 0.4329510) + 0.238081;
    return a / b;
}

vec3 toneMap(vec3 color) {
    const mat3 ACESInputMat = mat3(
        vec3(0.59719, 0.07600, 0.02840),
        vec3(0.35458, 0.90834, 0.13383),
        vec3(0.04823, 0.01566, 0.83777)
    );
    const mat3 ACESOutputMat = mat3(
        vec3( 1.60475, -0.10208, -0.00327),
        vec3(-0.53108,  1.10813, -0.07276),
        vec3(-0.07367, -0.00605,  1.07602)
    );
    color *= 1.0 / 0.6;
    color = ACESInputMat * color;
    color = RRTAndODTFit(color);
    color = ACESOutputMat * color;
    color = clamp(color, 0.0, 1.0);
    return pow(color, vec3(1.0 / 2.2));
}
`

// Modelo de céu de Preetham. skyColor devolve radiância linear para uma direção de visão.
const skyGLSL = `
uniform vec3 sunPosition;
uniform float turbidity;
uniform float rayleigh;
uniform float mieCoefficient;
uniform float mieDirectionalG;

const vec3 up = vec3(0.0, 1.0, 0.0);
const float e = 2.718281828459045;
const vec3 totalRayleigh = vec3(5.804542996261093E-6, 1.3562911419845635E-5, 3.0265902468824876E-5);
const vec3 MieConst = vec3(1.8399918514433978E14, 2.7798023919660528E14, 4.0790479543861094E14);
const float cutoffAngle = 1.6110731556870734;
const float steepness = 1.5;
const float EE = 1000.0;

const float rayleighZenithLength = 8.4E3;
const float mieZenithLength = 1.25E3;
const float sunAngularDiameterCos = 0.999956676946448443553574619906976478926848692873900859324;
const float THREE_OVER_SIXTEENPI = 0.05968310365946075;
const float ONE_OVER_FOURPI = 0.07957747154594767;

float sunIntensity(float zenithAngleCos) {
    zenithAngleCos = clamp(zenithAngleCos, -1.0, 1.0);
    return EE * max(0.0, 1.0 - pow(e, -((cutoffAngle - acos(zenithAngleCos)) / steepness)));
}

vec3 totalMie(float T) {
    float c = (0.2 * T) * 10E-18;
    return 0.434 * c * MieConst;
}

float rayleighPhase(float cosTheta) {
    return THREE_OVER_SIXTEENPI * (1.0 + pow(cosTheta, 2.0));
}

float hgPhase(float cosTheta, float g) {
    float g2 = pow(g, 2.0);
    float inverse = 1.0 / pow(1.0 - 2.0 * g * cosTheta + g2, 1.5);
    return ONE_OVER_FOURPI * ((1.0 - g2) * inverse);
}

vec3 skyColor(vec3 direction) {
    vec3 sunDirection = normalize(sunPosition);
    float sunE = sunIntensity(dot(sunDirection, up));
    float sunfade = 1.0 - clamp(1.0 - exp(sunPosition.y / 450000.0), 0.0, 1.0);
    float rayleighCoefficient = rayleigh - (1.0 * (1.0 - sunfade));
    vec3 betaR = totalRayleigh * rayleighCoefficient;
    vec3 betaM = totalMie(turbidity) * mieCoefficient;

    float zenithAngle = acos(max(0.0, dot(up, direction)));
    float inverse = 1.0 / (cos(zenithAngle) + 0.15 * pow(93.885 - ((zenithAngle * 180.0) / PI), -1.253));
    float sR = rayleighZenithLength * inverse;
    float sM = mieZenithLength * inverse;

    vec3 Fex = exp(-(betaR * sR + betaM * sM));

    float cosTheta = dot(direction, sunDirection);
    float rPhase = rayleighPhase(cosTheta * 0.5 + 0.5);
    vec3 betaRTheta = betaR * rPhase;
    float mPhase = hgPhase(cosTheta, mieDirectionalG);
    vec3 betaMTheta = betaM * mPhase;

    vec3 Lin = pow(sunE * ((betaRTheta + betaMTheta) / (betaR + betaM)) * (1.0 - Fex), vec3(1.5));
    Lin *= mix(vec3(1.0), pow(sunE * ((betaRTheta + betaMTheta) / (betaR + betaM)) * Fex, vec3(1.0 / 2.0)),
        clamp(pow(1.0 - dot(up, sunDirection), 5.0), 0.0, 1.0));

    vec3 L0 = vec3(0.1) * Fex;
    float sundisk = smoothstep(sunAngularDiameterCos, sunAngularDiameterCos + 0.00002, cosTheta);
    L0 += (sunE * 19000.0 * Fex) * sundisk;

    vec3 texColor = (Lin + L0) * 0.04 + vec3(0.0, 0.0003, 0.00075);
    return pow(texColor, vec3(1.0 / (1.2 + (1.2 * sunfade))));
}
`

// Céu: cubo centrado na origem, projetado no plano distante.
const skyVertexShader = `
#version 330

in vec3 vertexPosition;

uniform mat4 mvp;
uniform mat4 matModel;

out vec3 fragWorldPos;

void main()
{
    fragWorldPos = (matModel * vec4(vertexPosition, 1.0)).xyz;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
    gl_Position.z = gl_Position.w; // Sempre no plano distante
}
`

const skyFragmentShader = `
#version 330

in vec3 fragWorldPos;

uniform vec3 cameraPos;

out vec4 finalColor;
` + equirectGLSL + skyGLSL + toneMappingGLSL + `
void main()
{
    vec3 direction = normalize(fragWorldPos - cameraPos);
    finalColor = vec4(toneMap(skyColor(direction)), 1.0);
}
`

// Passe do mapa de ambiente: um quad cobrindo a render texture, cada texel é uma direção.
const skyEquirectVertexShader = `
#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;

uniform mat4 mvp;

out vec2 fragTexCoord;

void main()
{
    fragTexCoord = vertexTexCoord;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const skyEquirectFragmentShader = `
#version 330

in vec2 fragTexCoord;

out vec4 finalColor;
` + equirectGLSL + skyGLSL + `
void main()
{
    // Radiância linear; o tone mapping acontece em quem consulta o mapa
    finalColor = vec4(skyColor(equirectToDir(fragTexCoord)), 1.0);
}
`

const waterVertexShader = `
#version 330

in vec3 vertexPosition;

uniform mat4 mvp;
uniform mat4 matModel;

out vec3 fragWorldPos;

void main()
{
    fragWorldPos = (matModel * vec4(vertexPosition, 1.0)).xyz;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

// Água: ruído de normal map em 4 oitavas, luz do sol e reflexo do mapa de ambiente.
const waterFragmentShader = `
#version 330

in vec3 fragWorldPos;

uniform sampler2D texture0; // Normal map da água
uniform sampler2D texture1; // Mapa de ambiente
uniform float time;
uniform float size;
uniform float distortionScale;
uniform vec3 sunDirection;
uniform vec3 sunColor;
uniform vec3 waterColor;
uniform vec3 eye;
uniform float alpha;

out vec4 finalColor;
` + equirectGLSL + toneMappingGLSL + `
vec4 getNoise(vec2 uv) {
    vec2 uv0 = (uv / 103.0) + vec2(time / 17.0, time / 29.0);
    vec2 uv1 = uv / 107.0 - vec2(time / -19.0, time / 31.0);
    vec2 uv2 = uv / vec2(8907.0, 9803.0) + vec2(time / 101.0, time / 97.0);
    vec2 uv3 = uv / vec2(1091.0, 1027.0) - vec2(time / 109.0, time / -113.0);
    vec4 noise = texture(texture0, uv0) +
        texture(texture0, uv1) +
        texture(texture0, uv2) +
        texture(texture0, uv3);
    return noise * 0.5 - 1.0;
}

void sunLight(const vec3 surfaceNormal, const vec3 eyeDirection, float shiny, float spec, float diffuse,
    inout vec3 diffuseColor, inout vec3 specularColor) {
    vec3 reflection = normalize(reflect(-sunDirection, surfaceNormal));
    float direction = max(0.0, dot(eyeDirection, reflection));
    specularColor += pow(direction, shiny) * sunColor * spec;
    diffuseColor += max(dot(sunDirection, surfaceNormal), 0.0) * sunColor * diffuse;
}

void main()
{
    vec4 noise = getNoise(fragWorldPos.xz * size);
    vec3 surfaceNormal = normalize(noise.xzy * vec3(1.5, 1.0, 1.5));

    vec3 diffuseLight = vec3(0.0);
    vec3 specularLight = vec3(0.0);

    vec3 worldToEye = eye - fragWorldPos;
    vec3 eyeDirection = normalize(worldToEye);
    sunLight(surfaceNormal, eyeDirection, 100.0, 2.0, 0.5, diffuseLight, specularLight);

    float distance = length(worldToEye);
    vec2 distortion = surfaceNormal.xz * (0.001 + 1.0 / distance) * distortionScale;

    vec3 reflected = reflect(-eyeDirection, surfaceNormal);
    reflected.xz += distortion;
    reflected.y = abs(reflected.y); // O reflexo nunca consulta o hemisfério abaixo do horizonte
    vec3 reflectionSample = textureLod(texture1, dirToEquirect(reflected), 0.0).rgb;

    float theta = max(dot(eyeDirection, surfaceNormal), 0.0);
    float rf0 = 0.3;
    float reflectance = rf0 + (1.0 - rf0) * pow((1.0 - theta), 5.0);
    vec3 scatter = max(0.0, dot(surfaceNormal, eyeDirection)) * waterColor;
    vec3 albedo = mix((sunColor * diffuseLight * 0.3 + scatter),
        (vec3(0.1) + reflectionSample * 0.9 + reflectionSample * specularLight), reflectance);

    finalColor = vec4(toneMap(albedo), alpha);
}
`

// Material padrão: luz ambiente do mapa de ambiente (por LOD) + difusa do sol.
const litVertexShader = `
#version 330

in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;

uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;

out vec3 fragWorldPos;
out vec3 fragNormal;
out vec2 fragTexCoord;

void main()
{
    fragWorldPos = (matModel * vec4(vertexPosition, 1.0)).xyz;
    fragNormal = normalize((matNormal * vec4(vertexNormal, 0.0)).xyz);
    fragTexCoord = vertexTexCoord;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const litFragmentShader = `
#version 330

in vec3 fragWorldPos;
in vec3 fragNormal;
in vec2 fragTexCoord;

uniform sampler2D texture0; // Albedo do material
uniform sampler2D texture1; // Mapa de ambiente
uniform vec4 colDiffuse;
uniform vec4 baseColor;
uniform vec3 sunDirection;
uniform vec3 viewPos;

out vec4 finalColor;
` + equirectGLSL + toneMappingGLSL + `
void main()
{
    vec4 albedo = texture(texture0, fragTexCoord) * colDiffuse * baseColor;

    vec3 N = normalize(fragNormal);
    if (!gl_FrontFacing) N = -N;
    vec3 V = normalize(viewPos - fragWorldPos);

    // Níveis altos do mip chain fazem o papel de irradiância
    vec3 ambient = textureLod(texture1, dirToEquirect(N), 6.0).rgb;
    vec3 diffuse = vec3(max(dot(N, normalize(sunDirection)), 0.0));

    float fresnel = 0.04 + 0.96 * pow(1.0 - max(dot(N, V), 0.0), 5.0);
    vec3 specular = textureLod(texture1, dirToEquirect(reflect(-V, N)), 4.0).rgb * fresnel;

    vec3 color = albedo.rgb * (ambient + diffuse) + specular;
    finalColor = vec4(toneMap(color), albedo.a);
}
`
