package models

//FaceType is the kind of a room face
type FaceType string

const (
	FaceWall        FaceType = "Wall"
	FaceRoofCeiling FaceType = "RoofCeiling"
	FaceFloor       FaceType = "Floor"
	FaceAirBoundary FaceType = "AirBoundary"
	FaceAperture    FaceType = "Aperture"
)

//Aperture is a window or glass door hosted by a face
type Aperture struct {
	Identifier string  `json:"identifier"`
	Area       float64 `json:"area"`
}

//Face is an opaque room boundary
type Face struct {
	Identifier string     `json:"identifier"`
	Type       FaceType   `json:"face_type"`
	Area       float64    `json:"area"`
	Apertures  []Aperture `json:"apertures,omitempty"`
}

// PunchedArea is the face area left once the apertures are cut out.
func (f Face) PunchedArea() float64 {
	area := f.Area
	for _, a := range f.Apertures {
		area -= a.Area
	}
	if area < 0 {
		return 0
	}
	return area
}

//Room is a thermal zone of the model
type Room struct {
	Identifier string  `json:"identifier"`
	FloorArea  float64 `json:"floor_area"`
	Multiplier int     `json:"multiplier,omitempty"`
	Faces      []Face  `json:"faces,omitempty"`
}

// EffectiveMultiplier defaults a missing multiplier to 1.
func (r Room) EffectiveMultiplier() int {
	if r.Multiplier < 1 {
		return 1
	}
	return r.Multiplier
}

func (r Room) EntityID() string            { return r.Identifier }
func (r Room) NormalizationArea() float64 { return r.FloorArea }

//Surface is a face or aperture flattened out of its room
type Surface struct {
	Identifier     string
	Type           FaceType
	Area           float64
	RoomIdentifier string
	Multiplier     int
}

func (s Surface) EntityID() string            { return s.Identifier }
func (s Surface) NormalizationArea() float64 { return s.Area }

// IsAperture reports whether the surface is glazing.
func (s Surface) IsAperture() bool {
	return s.Type == FaceAperture
}

//Entity is a geometric object a series can be matched to
type Entity interface {
	EntityID() string
	NormalizationArea() float64
}

//Model is the geometric input of the matcher
type Model struct {
	Identifier string `json:"identifier"`
	Rooms      []Room `json:"rooms"`
}

// Surfaces flattens every face and aperture of the model. Faces carry their
// punched area.
func (m Model) Surfaces() []Surface {
	var out []Surface
	for _, r := range m.Rooms {
		mult := r.EffectiveMultiplier()
		for _, f := range r.Faces {
			out = append(out, Surface{
				Identifier: f.Identifier, Type: f.Type, Area: f.PunchedArea(),
				RoomIdentifier: r.Identifier, Multiplier: mult,
			})
			for _, a := range f.Apertures {
				out = append(out, Surface{
					Identifier: a.Identifier, Type: FaceAperture, Area: a.Area,
					RoomIdentifier: r.Identifier, Multiplier: mult,
				})
			}
		}
	}
	return out
}

// TotalFloorArea sums the floor area of every room times its multiplier.
func (m Model) TotalFloorArea() float64 {
	var area float64
	for _, r := range m.Rooms {
		area += r.FloorArea * float64(r.EffectiveMultiplier())
	}
	return area
}

//MatchedSeries is a series joined to the entity that produced it
type MatchedSeries struct {
	Entity     Entity
	Series     *TimeSeries
	Multiplier int
}

// ScaleAreas returns a copy of the model with every area multiplied by factor.
func (m Model) ScaleAreas(factor float64) Model {
	out := Model{Identifier: m.Identifier, Rooms: make([]Room, len(m.Rooms))}
	for i, r := range m.Rooms {
		room := r
		room.FloorArea = r.FloorArea * factor
		room.Faces = make([]Face, len(r.Faces))
		for j, f := range r.Faces {
			face := f
			face.Area = f.Area * factor
			face.Apertures = make([]Aperture, len(f.Apertures))
			for k, a := range f.Apertures {
				face.Apertures[k] = Aperture{Identifier: a.Identifier, Area: a.Area * factor}
			}
			room.Faces[j] = face
		}
		out.Rooms[i] = room
	}
	return out
}
