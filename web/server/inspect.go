package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	GeometryType string         `json:"geometryType,omitempty"` // "mesh" or "sphere"
	Name         string         `json:"name,omitempty"`
	Index        int            `json:"index"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	Material     *MaterialInfo  `json:"material,omitempty"`
	Properties   map[string]any `json:"properties,omitempty"`
}

// MaterialInfo describes the Phong coefficients of the struck surface
type MaterialInfo struct {
	Diffuse   [3]float64 `json:"diffuse"`
	Specular  [3]float64 `json:"specular"`
	Shininess float64    `json:"shininess"`
	Mirror    bool       `json:"mirror"`
	Color     string     `json:"color"`
}

// InspectResult contains the first hit along the camera ray of a pixel
type InspectResult struct {
	Hit    bool
	Ray    core.Ray
	Info   geometry.HitInfo
	Sphere int // Index of the struck sphere, -1 for meshes
}

// inspectPixel casts the camera ray of an image pixel, counted from the
// top-left, into a preprocessed scene
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	camera := renderer.NewPinholeCamera(sceneObj.CameraConfig, float64(width)/float64(height))
	ray := camera.GenerateRay(renderer.PixelNDC(pixelX, height-1-pixelY, width, height))

	hit := geometry.NoHit()
	if !sceneObj.Intersect(&ray, &hit) {
		return InspectResult{Ray: ray, Sphere: -1}
	}

	result := InspectResult{Hit: true, Ray: ray, Info: hit, Sphere: -1}
	if hit.MeshIndex < 0 {
		// HitInfo does not name the sphere, so find the one at the same distance
		for i, sphere := range sceneObj.Spheres {
			probe := ray.Reset()
			probeHit := geometry.NoHit()
			if geometry.IntersectSphere(sphere, &probe, &probeHit) && probe.T == ray.T {
				result.Sphere = i
				break
			}
		}
	}
	return result
}

// extractMaterialInfo summarizes a material
func extractMaterialInfo(mat material.Phong) *MaterialInfo {
	c := mat.Kd.Add(mat.Ks).Clamp(0, 1)
	return &MaterialInfo{
		Diffuse:   vecArray(mat.Kd),
		Specular:  vecArray(mat.Ks),
		Shininess: mat.Shininess,
		Mirror:    mat.IsSpecular(),
		Color:     fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255)),
	}
}

// extractGeometryInfo describes the struck mesh or sphere
func extractGeometryInfo(sceneObj *scene.Scene, result InspectResult) (string, string, int, map[string]any) {
	properties := make(map[string]any)

	if mi := result.Info.MeshIndex; mi >= 0 && mi < len(sceneObj.Meshes) {
		mesh := &sceneObj.Meshes[mi]
		box := mesh.Bounds()
		properties["triangleCount"] = len(mesh.Triangles)
		properties["vertexCount"] = len(mesh.Vertices)
		properties["boundingBox"] = map[string]any{
			"min": vecArray(box.Min),
			"max": vecArray(box.Max),
		}
		return "mesh", mesh.Name, mi, properties
	}

	if si := result.Sphere; si >= 0 {
		sphere := sceneObj.Spheres[si]
		properties["center"] = vecArray(sphere.Center)
		properties["radius"] = sphere.Radius
		return "sphere", fmt.Sprintf("sphere %d", si), si, properties
	}
	return "unknown", "", -1, properties
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req := &SceneRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	values := r.URL.Query()
	pixelX, err := parseIntParam(values, "x", -1, 0, req.Width-1)
	if err != nil || pixelX < 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := parseIntParam(values, "y", -1, 0, req.Height-1)
	if err != nil || pixelY < 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Index: -1})
		return
	}

	geometryType, name, index, properties := extractGeometryInfo(sceneObj, result)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Name:         name,
		Index:        index,
		Point:        vecArray(result.Ray.HitPoint()),
		Normal:       vecArray(result.Info.Normal),
		Distance:     result.Ray.T,
		Material:     extractMaterialInfo(result.Info.Material),
		Properties:   properties,
	})
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
