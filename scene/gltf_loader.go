package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"skyline/core"
)

// ErrNoGeometry is returned when a glTF file contains no triangle primitives.
var ErrNoGeometry = errors.New("gltf: no geometry")

// LoadHeroGLTF opens a .glb or .gltf file and flattens every mesh reachable
// from the default scene into a single indexed mesh. Node transforms are
// baked into the vertices, and the result is recentred and rescaled to fit
// the unit sphere so it can stand in for the default hero.
func LoadHeroGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var verts []core.Vertex
	var indices []uint32

	var visit func(idx int, parent mgl32.Mat4) error
	visit = func(idx int, parent mgl32.Mat4) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return nil
		}
		gn := doc.Nodes[idx]
		world := parent.Mul4(nodeMatrix(gn))

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				if prim.Mode != gltf.PrimitiveTriangles {
					continue
				}
				v, ix, err := readPrimitive(doc, *prim)
				if err != nil {
					return fmt.Errorf("mesh %q prim %d: %w", gm.Name, pi, err)
				}
				base := uint32(len(verts))
				normalMat := world.Mat3().Inv().Transpose()
				for _, vert := range v {
					vert.Position = mgl32.TransformCoordinate(vert.Position, world)
					vert.Normal = normalMat.Mul3x1(vert.Normal).Normalize()
					verts = append(verts, vert)
				}
				for _, i := range ix {
					indices = append(indices, base+i)
				}
			}
		}
		for _, child := range gn.Children {
			if err := visit(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := visit(root, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("%q: %w", path, ErrNoGeometry)
	}

	m := CreateMeshFromData(path, verts, indices)
	normalizeToUnitSphere(m)
	return m, nil
}

// rootNodes returns the nodes of the default scene, or every parentless
// node when the document has none.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	if gn.Matrix != gltf.DefaultMatrix {
		var m mgl32.Mat4
		for i, v := range gn.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// readPrimitive converts one glTF mesh primitive into vertices and indices.
func readPrimitive(doc *gltf.Document, prim gltf.Primitive) ([]core.Vertex, []uint32, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3{p[0], p[1], p[2]},
			Normal:   mgl32.Vec3{0, 1, 0},
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]}
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return verts, indices, nil
}

// normalizeToUnitSphere recentres m on the origin and scales it so its
// bounding box fits inside the unit sphere.
func normalizeToUnitSphere(m *Mesh) {
	c := m.LocalAABB.Center()
	r := m.LocalAABB.Radius()
	if r == 0 {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(c).Mul(1 / r)
	}
	m.LocalAABB = computeLocalAABB(m.Vertices)
}
