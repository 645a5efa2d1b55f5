package opengl

import (
	"fmt"

	"skyline/ibl"
)

// ── Bake shaders ──────────────────────────────────────────────────────────────

// captureVertSrc renders the unit cube through one capture face; the
// fragment stages read the interpolated local position as a direction.
const captureVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 projection;
uniform mat4 view;

out vec3 localPos;

void main() {
    localPos = inPosition;
    gl_Position = projection * view * vec4(inPosition, 1.0);
}
` + "\x00"

const equirectFragSrc = `
#version 410 core
in vec3 localPos;
out vec4 outColor;

uniform sampler2D equirectangularMap;

// 1/(2pi), 1/pi
const vec2 invAtan = vec2(0.15915494309, 0.31830988618);

vec2 sampleSphericalMap(vec3 v) {
    vec2 uv = vec2(atan(v.z, v.x), asin(clamp(v.y, -1.0, 1.0)));
    return uv * invAtan + 0.5;
}

void main() {
    vec2 uv = sampleSphericalMap(normalize(localPos));
    outColor = vec4(textureLod(equirectangularMap, uv, 0.0).rgb, 1.0);
}
` + "\x00"

// irradianceFragFmt takes the azimuth steps, elevation steps and the step
// size. Integer loop counts keep the sample set identical to the software
// convolver.
const irradianceFragFmt = `
#version 410 core
in vec3 localPos;
out vec4 outColor;

uniform samplerCube environmentMap;

const float PI = 3.14159265359;
const int PHI_STEPS = %d;
const int THETA_STEPS = %d;
const float STEP = %.6f;

void main() {
    vec3 N = normalize(localPos);
    vec3 up = abs(N.y) > 0.999 ? vec3(0.0, 0.0, 1.0) : vec3(0.0, 1.0, 0.0);
    vec3 right = normalize(cross(up, N));
    up = cross(N, right);

    vec3 irradiance = vec3(0.0);
    for (int i = 0; i < PHI_STEPS; ++i) {
        float phi = float(i) * STEP;
        for (int j = 0; j < THETA_STEPS; ++j) {
            float theta = float(j) * STEP;
            vec3 t = vec3(sin(theta) * cos(phi), sin(theta) * sin(phi), cos(theta));
            vec3 dir = t.x * right + t.y * up + t.z * N;
            irradiance += textureLod(environmentMap, dir, 0.0).rgb * cos(theta) * sin(theta);
        }
    }
    irradiance = PI * irradiance / float(PHI_STEPS * THETA_STEPS);
    outColor = vec4(irradiance, 1.0);
}
` + "\x00"

// ggxCommon is shared by the prefilter and BRDF stages.
const ggxCommon = `
const float PI = 3.14159265359;

float RadicalInverse_VdC(uint bits) {
    bits = (bits << 16u) | (bits >> 16u);
    bits = ((bits & 0x55555555u) << 1u) | ((bits & 0xAAAAAAAAu) >> 1u);
    bits = ((bits & 0x33333333u) << 2u) | ((bits & 0xCCCCCCCCu) >> 2u);
    bits = ((bits & 0x0F0F0F0Fu) << 4u) | ((bits & 0xF0F0F0F0u) >> 4u);
    bits = ((bits & 0x00FF00FFu) << 8u) | ((bits & 0xFF00FF00u) >> 8u);
    return float(bits) * 2.3283064365386963e-10; // / 0x100000000
}

vec2 Hammersley(uint i, uint N) {
    return vec2(float(i) / float(N), RadicalInverse_VdC(i));
}

vec3 ImportanceSampleGGX(vec2 Xi, vec3 N, float roughness) {
    float a = roughness * roughness;

    float phi = 2.0 * PI * Xi.x;
    float cosTheta = sqrt((1.0 - Xi.y) / (1.0 + (a * a - 1.0) * Xi.y));
    float sinTheta = sqrt(max(1.0 - cosTheta * cosTheta, 0.0));

    vec3 H = vec3(cos(phi) * sinTheta, sin(phi) * sinTheta, cosTheta);

    vec3 up = abs(N.z) < 0.999 ? vec3(0.0, 0.0, 1.0) : vec3(1.0, 0.0, 0.0);
    vec3 tangent = normalize(cross(up, N));
    vec3 bitangent = cross(N, tangent);

    return normalize(tangent * H.x + bitangent * H.y + N * H.z);
}

float DistributionGGX(float NdotH, float roughness) {
    float a = roughness * roughness;
    float a2 = a * a;
    float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float GeometrySchlickGGX(float NdotX, float roughness) {
    float k = (roughness * roughness) / 2.0;
    return NdotX / (NdotX * (1.0 - k) + k);
}
`

// prefilterFragFmt takes the shared GGX helpers, the sample count and the
// environment resolution.
const prefilterFragFmt = `
#version 410 core
in vec3 localPos;
out vec4 outColor;

uniform samplerCube environmentMap;
uniform float roughness;
%s
const uint SAMPLE_COUNT = %du;
const float ENV_RESOLUTION = %d.0;

void main() {
    vec3 N = normalize(localPos);
    vec3 V = N;

    float totalWeight = 0.0;
    vec3 prefiltered = vec3(0.0);
    for (uint i = 0u; i < SAMPLE_COUNT; ++i) {
        vec2 Xi = Hammersley(i, SAMPLE_COUNT);
        vec3 H = ImportanceSampleGGX(Xi, N, roughness);
        vec3 L = normalize(2.0 * dot(V, H) * H - V);

        float NdotL = dot(N, L);
        if (NdotL > 0.0) {
            float mip = 0.0;
            if (roughness > 0.0) {
                float NdotH = max(dot(N, H), 0.0);
                float HdotV = max(dot(H, V), 0.0);
                float pdf = DistributionGGX(NdotH, roughness) * NdotH / (4.0 * HdotV) + 0.0001;
                float saTexel = 4.0 * PI / (6.0 * ENV_RESOLUTION * ENV_RESOLUTION);
                float saSample = 1.0 / (float(SAMPLE_COUNT) * pdf + 0.0001);
                mip = 0.5 * log2(saSample / saTexel);
            }
            prefiltered += textureLod(environmentMap, L, mip).rgb * NdotL;
            totalWeight += NdotL;
        }
    }
    outColor = vec4(prefiltered / max(totalWeight, 1e-6), 1.0);
}
` + "\x00"

const quadVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inUV;

out vec2 texCoords;

void main() {
    texCoords = inUV;
    gl_Position = vec4(inPosition, 1.0);
}
` + "\x00"

// brdfFragFmt takes the shared GGX helpers and the sample count.
const brdfFragFmt = `
#version 410 core
in vec2 texCoords;
out vec2 outColor;
%s
const uint SAMPLE_COUNT = %du;

vec2 IntegrateBRDF(float NdotV, float roughness) {
    vec3 V = vec3(sqrt(1.0 - NdotV * NdotV), 0.0, NdotV);
    vec3 N = vec3(0.0, 0.0, 1.0);

    float A = 0.0;
    float B = 0.0;
    for (uint i = 0u; i < SAMPLE_COUNT; ++i) {
        vec2 Xi = Hammersley(i, SAMPLE_COUNT);
        vec3 H = ImportanceSampleGGX(Xi, N, roughness);
        vec3 L = normalize(2.0 * dot(V, H) * H - V);

        float NdotL = max(L.z, 0.0);
        float NdotH = max(H.z, 0.0);
        float VdotH = max(dot(V, H), 0.0);
        if (NdotL > 0.0) {
            float G = GeometrySchlickGGX(NdotV, roughness) * GeometrySchlickGGX(NdotL, roughness);
            float G_Vis = (G * VdotH) / (NdotH * NdotV);
            float Fc = pow(1.0 - VdotH, 5.0);
            A += (1.0 - Fc) * G_Vis;
            B += Fc * G_Vis;
        }
    }
    return vec2(A, B) / float(SAMPLE_COUNT);
}

void main() {
    outColor = IntegrateBRDF(texCoords.x, texCoords.y);
}
` + "\x00"

// bakeSources are the fragment stages of the bake passes with the shared
// constants substituted.
type bakeSources struct {
	irradiance string
	prefilter  string
	brdf       string
}

func newBakeSources(opts ibl.Options) bakeSources {
	phi, theta := ibl.IrradianceSteps()
	return bakeSources{
		irradiance: fmt.Sprintf(irradianceFragFmt, phi, theta, ibl.IrradianceStep),
		prefilter:  fmt.Sprintf(prefilterFragFmt, ggxCommon, opts.SampleCount, opts.EnvSize),
		brdf:       fmt.Sprintf(brdfFragFmt, ggxCommon, opts.SampleCount),
	}
}

// ── Display shaders ───────────────────────────────────────────────────────────

// backgroundVertSrc strips the view translation and forces depth = 1.0
// via the xyww trick so the sky lands behind all geometry.
const backgroundVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 projection;
uniform mat4 view;

out vec3 localPos;

void main() {
    localPos = inPosition;
    mat4 rotView = mat4(mat3(view));
    vec4 clipPos = projection * rotView * vec4(inPosition, 1.0);
    gl_Position = clipPos.xyww;
}
` + "\x00"

const backgroundFragSrc = `
#version 410 core
in vec3 localPos;
out vec4 outColor;

uniform samplerCube environmentMap;

void main() {
    vec3 color = textureLod(environmentMap, localPos, 0.0).rgb;
    color = color / (color + vec3(1.0));
    color = pow(color, vec3(1.0 / 2.2));
    outColor = vec4(color, 1.0);
}
` + "\x00"

// pbrVertFmt takes a preamble that selects the per-instance model matrix
// (attribute locations 3-6) or the model uniform.
const pbrVertFmt = `
#version 410 core
%s
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
#ifdef INSTANCED
layout(location = 3) in mat4 inModel;
#else
uniform mat4 model;
#endif

uniform mat4 projection;
uniform mat4 view;

out vec3 worldPos;
out vec3 normal;
out vec2 texCoords;

void main() {
#ifdef INSTANCED
    mat4 m = inModel;
#else
    mat4 m = model;
#endif
    texCoords = inUV;
    worldPos = vec3(m * vec4(inPosition, 1.0));
    normal = mat3(transpose(inverse(m))) * inNormal;
    gl_Position = projection * view * vec4(worldPos, 1.0);
}
` + "\x00"

func pbrVertSrc(instanced bool) string {
	if instanced {
		return fmt.Sprintf(pbrVertFmt, "#define INSTANCED")
	}
	return fmt.Sprintf(pbrVertFmt, "")
}

// pbrFragFmt takes the highest prefilter mip level.
const pbrFragFmt = `
#version 410 core
in vec3 worldPos;
in vec3 normal;
in vec2 texCoords;
out vec4 outColor;

uniform vec3 albedo;
uniform float metallic;
uniform float roughness;

uniform samplerCube irradianceMap;
uniform samplerCube prefilterMap;
uniform sampler2D brdfLUT;

uniform sampler2D facadeMap;
uniform bool useFacade;

uniform vec3 lightPositions[4];
uniform vec3 lightColors[4];

uniform vec3 camPos;

uniform float fogBegin;
uniform float fogEnd;
uniform vec3 fogColor;

const float PI = 3.14159265359;
const float MAX_REFLECTION_LOD = %d.0;

float DistributionGGX(vec3 N, vec3 H, float roughness) {
    float a = roughness * roughness;
    float a2 = a * a;
    float NdotH = max(dot(N, H), 0.0);
    float d = NdotH * NdotH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float GeometrySchlickGGX(float NdotV, float roughness) {
    float r = roughness + 1.0;
    float k = (r * r) / 8.0;
    return NdotV / (NdotV * (1.0 - k) + k);
}

float GeometrySmith(vec3 N, vec3 V, vec3 L, float roughness) {
    return GeometrySchlickGGX(max(dot(N, V), 0.0), roughness) *
           GeometrySchlickGGX(max(dot(N, L), 0.0), roughness);
}

vec3 fresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 fresnelSchlickRoughness(float cosTheta, vec3 F0, float roughness) {
    return F0 + (max(vec3(1.0 - roughness), F0) - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

void main() {
    vec3 baseColor = albedo;
    float metal = metallic;
    float rough = roughness;
    if (useFacade) {
        vec3 f = texture(facadeMap, texCoords).rgb;
        baseColor *= mix(0.25, 1.0, f.r);
        rough = f.g;
        metal = f.b;
    }

    vec3 N = normalize(normal);
    vec3 V = normalize(camPos - worldPos);
    vec3 R = reflect(-V, N);

    vec3 F0 = mix(vec3(0.04), baseColor, metal);

    vec3 Lo = vec3(0.0);
    for (int i = 0; i < 4; ++i) {
        vec3 L = normalize(lightPositions[i] - worldPos);
        vec3 H = normalize(V + L);
        float distance = length(lightPositions[i] - worldPos);
        vec3 radiance = lightColors[i] / (distance * distance);

        float NDF = DistributionGGX(N, H, rough);
        float G = GeometrySmith(N, V, L, rough);
        vec3 F = fresnelSchlick(max(dot(H, V), 0.0), F0);

        vec3 specular = NDF * G * F / (4.0 * max(dot(N, V), 0.0) * max(dot(N, L), 0.0) + 0.0001);
        vec3 kD = (vec3(1.0) - F) * (1.0 - metal);
        Lo += (kD * baseColor / PI + specular) * radiance * max(dot(N, L), 0.0);
    }

    vec3 F = fresnelSchlickRoughness(max(dot(N, V), 0.0), F0, rough);
    vec3 kD = (1.0 - F) * (1.0 - metal);
    vec3 diffuse = texture(irradianceMap, N).rgb * baseColor;

    vec3 prefiltered = textureLod(prefilterMap, R, rough * MAX_REFLECTION_LOD).rgb;
    vec2 brdf = texture(brdfLUT, vec2(max(dot(N, V), 0.0), rough)).rg;
    vec3 specular = prefiltered * (F * brdf.x + brdf.y);

    vec3 color = kD * diffuse + specular + Lo;

    color = color / (color + vec3(1.0));
    color = pow(color, vec3(1.0 / 2.2));

    float fog = clamp((length(camPos - worldPos) - fogBegin) / (fogEnd - fogBegin), 0.0, 1.0);
    outColor = vec4(mix(color, fogColor, fog), 1.0);
}
` + "\x00"

func pbrFragSrc() string {
	return fmt.Sprintf(pbrFragFmt, ibl.PrefilterMips-1)
}
