package renderer

// Headlight shading with an optional tangent-space normal map. Vertices
// whose normal is zero (collapsed rings) keep the plain color.
//
// Texture s runs along u, the tangent direction, and t along z. The texture
// coordinates are rotated by uTexRotation about uTexPoint, then tiled.
const surfaceVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec3 aNormal;
layout (location = 3) in vec3 aTangent;

uniform mat4 uModelView;
uniform mat4 uProjection;
uniform mat2 uTexRotation;
uniform vec2 uTexPoint;
uniform vec2 uTexTiles;

out vec3 vNormal;
out vec3 vTangent;
out vec3 vView;
out vec2 vTexCoord;

void main() {
    vec4 pos = uModelView * vec4(aPosition, 1.0);
    mat3 nm = mat3(uModelView);
    vNormal = nm * aNormal;
    vTangent = nm * aTangent;
    vView = -pos.xyz;
    vTexCoord = (uTexRotation * (aUV.yx - uTexPoint) + uTexPoint) * uTexTiles;
    gl_Position = uProjection * pos;
}
`

const surfaceFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vTangent;
in vec3 vView;
in vec2 vTexCoord;

uniform vec4 uColor;
uniform float uShade;
uniform float uNormalMapping;
uniform float uSpecular;
uniform mat2 uTexRotation;
uniform sampler2D uNormalMap;

out vec4 FragColor;

void main() {
    float len = length(vNormal);
    if (uShade < 0.5 || len < 1e-5) {
        FragColor = uColor;
        return;
    }
    vec3 n = vNormal / len;

    if (uNormalMapping > 0.5) {
        vec3 t = vTangent - dot(vTangent, n) * n;
        if (length(t) > 1e-5) {
            t = normalize(t);
            vec3 m = texture(uNormalMap, vTexCoord).xyz * 2.0 - 1.0;
            // Undo the texture rotation so the slope stays in surface axes.
            m.xy = transpose(uTexRotation) * m.xy;
            n = normalize(mat3(t, cross(n, t), n) * m);
        }
    }

    // The light sits at the eye, so the half vector is the view vector.
    vec3 v = normalize(vView);
    float facing = abs(dot(n, v));
    float light = 0.55 + 0.45 * facing;
    float highlight = uSpecular * pow(facing, 32.0);
    FragColor = vec4(min(uColor.rgb * light + vec3(highlight), vec3(1.0)), uColor.a);
}
`
