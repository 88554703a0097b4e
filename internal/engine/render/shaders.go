package render

// Vertex layout matches gltfmodel.Mesh buffer slots: position, texcoord,
// normal, color, tangent. Tangents are uploaded for future material work
// but unused by this shader.
const vertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec3 aNormal;
layout (location = 3) in vec4 aColor;

uniform mat4 uMVP;
uniform mat4 uModel;

out vec2 vTexCoord;
out vec3 vNormal;
out vec4 vColor;

void main() {
	vTexCoord = aTexCoord;
	vNormal = mat3(uModel) * aNormal;
	vColor = aColor;
	gl_Position = uMVP * vec4(aPosition, 1.0);
}
`

const fragmentShader = `#version 410 core
in vec2 vTexCoord;
in vec3 vNormal;
in vec4 vColor;

uniform sampler2D uTexture;
uniform vec4 uTint;
uniform vec3 uLightDir;

out vec4 fragColor;

void main() {
	vec4 texel = texture(uTexture, vTexCoord);
	float diffuse = max(dot(normalize(vNormal), -normalize(uLightDir)), 0.0);
	float lighting = 0.35 + 0.65 * diffuse;
	fragColor = vec4(texel.rgb * lighting, texel.a) * uTint * vColor;
}
`
