package server

import (
	"net/http"
	"strconv"
)

// BoxInfo is one bounding box
type BoxInfo struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// BVHResponse describes the hierarchy of a scene and, when a level is
// requested, the boxes at that level
type BVHResponse struct {
	Scene            string    `json:"scene"`
	Meshes           int       `json:"meshes"`
	Nodes            int       `json:"nodes"`
	Leaves           int       `json:"leaves"`
	Primitives       int       `json:"primitives"`
	Levels           int       `json:"levels"`
	MaxLeafSize      int       `json:"maxLeafSize"`
	AverageLeafSize  float64   `json:"averageLeafSize"`
	AverageLeafDepth float64   `json:"averageLeafDepth"`
	BuildTimeMs      float64   `json:"buildTimeMs"`
	Level            *int      `json:"level,omitempty"`
	Boxes            []BoxInfo `json:"boxes,omitempty"`
}

// handleBVH reports hierarchy statistics for a scene
func (s *Server) handleBVH(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("scene")
	if name == "" {
		name = DefaultScene
	}

	sceneObj, err := s.createScene(name)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	bvh := sceneObj.BVH
	stats := bvh.Stats()
	response := BVHResponse{
		Scene:            sceneObj.Name,
		Meshes:           len(sceneObj.Meshes),
		Nodes:            stats.Nodes,
		Leaves:           stats.Leaves,
		Primitives:       stats.Primitives,
		Levels:           bvh.Levels(),
		MaxLeafSize:      stats.MaxLeafSize,
		AverageLeafSize:  stats.AverageLeafSize,
		AverageLeafDepth: stats.AverageLeafDepth,
		BuildTimeMs:      float64(stats.BuildTime.Microseconds()) / 1000,
	}

	if value := r.URL.Query().Get("level"); value != "" {
		level, err := strconv.Atoi(value)
		if err != nil || level < 0 {
			writeJSONError(w, http.StatusBadRequest, "Invalid level: "+value)
			return
		}
		response.Level = &level
		for _, box := range bvh.BoxesAtLevel(level) {
			response.Boxes = append(response.Boxes, BoxInfo{Min: vecArray(box.Min), Max: vecArray(box.Max)})
		}
	}

	writeJSON(w, http.StatusOK, response)
}
