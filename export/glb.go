package export

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/voxslicer/voxel"
)

// Unclassified names the node holding boxes of colors no element matched.
const Unclassified = "unclassified"

// GLB is a voxel.Placer that accumulates one box mesh per element and
// builds a binary glTF scene from them.
type GLB struct {
	// Generator is written to the asset metadata.
	Generator string

	mu     sync.Mutex
	order  []string
	meshes map[string]*Mesh
}

// NewGLB returns an empty scene builder.
func NewGLB() *GLB {
	return &GLB{Generator: "voxslicer", meshes: make(map[string]*Mesh)}
}

// Place adds the faces of p to the mesh of its element.
func (g *GLB) Place(p voxel.Placement) error {
	g.add(p)
	return nil
}

func (g *GLB) add(p voxel.Placement) {
	name := p.Name
	if !p.Element.Valid() {
		name = Unclassified
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.meshes[name]
	if !ok {
		m = &Mesh{}
		g.meshes[name] = m
		g.order = append(g.order, name)
	}
	m.AddCuboid(p.Cuboid, p.Color.RGBA8())
}

// Document builds the glTF document: one node and one mesh per element, in
// order of first placement.
func (g *GLB) Document() *gltf.Document {
	g.mu.Lock()
	defer g.mu.Unlock()

	doc := gltf.NewDocument()
	doc.Asset.Generator = g.Generator

	hasAlpha := false
	for _, name := range g.order {
		for _, v := range g.meshes[name].Vertices {
			if v.Color[3] < 255 {
				hasAlpha = true
			}
		}
	}
	material := &gltf.Material{
		Name: "VertexColor",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}

	var meshIdx int
	for _, name := range g.order {
		m := g.meshes[name]
		positions := make([][3]float32, len(m.Vertices))
		normals := make([][3]float32, len(m.Vertices))
		colors := make([][4]uint8, len(m.Vertices))
		for j, v := range m.Vertices {
			positions[j] = v.Position
			normals[j] = v.Normal
			colors[j] = v.Color
		}
		prim := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, m.Indices)),
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
				gltf.COLOR_0:  modeler.WriteColor(doc, colors),
			},
			Material: gltf.Index(0),
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(meshIdx)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, meshIdx)
		meshIdx++
	}
	return doc
}

// Encode writes the scene as binary glTF.
func (g *GLB) Encode(w io.Writer) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(g.Document())
}

// Bytes returns the binary glTF scene.
func (g *GLB) Bytes() ([]byte, error) {
	var out bytes.Buffer
	if err := g.Encode(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Save writes the binary glTF scene to path.
func (g *GLB) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PlacementsToGLB builds a scene from already collected placements.
func PlacementsToGLB(ps []voxel.Placement) *GLB {
	g := NewGLB()
	for _, p := range ps {
		g.add(p)
	}
	return g
}
