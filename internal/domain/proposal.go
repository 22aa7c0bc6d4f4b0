package domain

// HallProposal is the full hall graph a vendor submits with an add request.
type HallProposal struct {
	HallFields
	Photos          []string                 `json:"photos" validate:"dive,required,max=500"`
	Packages        []PackageProposal        `json:"packages" validate:"dive"`
	FunctionalRooms []FunctionalRoomProposal `json:"functional_rooms" validate:"dive"`
	GuestRooms      []GuestRoomProposal      `json:"guest_rooms" validate:"dive"`
}

// HallEdit replaces every scalar of a hall and appends Photos to the existing ones.
type HallEdit struct {
	HallFields
	Photos []string `json:"photos" validate:"dive,required,max=500"`
}

type PackageProposal struct {
	PackageName string  `json:"package_name" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Details     string  `json:"details"`
}

type FunctionalRoomProposal struct {
	RoomType    string  `json:"room_type" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Amenities   string  `json:"amenities"`
}

type GuestRoomProposal struct {
	RoomCategory string  `json:"room_category" validate:"required,max=100"`
	Price        float64 `json:"price" validate:"gte=0"`
	BedType      string  `json:"bed_type" validate:"max=50"`
	MaxOccupancy int     `json:"max_occupancy" validate:"gte=0"`
	Description  string  `json:"description"`
	Amenities    string  `json:"amenities"`
}

// Hall materializes the proposal as an unsaved, approved hall with its children.
func (p HallProposal) Hall(vendorID *int64) *Hall {
	h := &Hall{
		HallFields:     p.HallFields,
		VendorID:       vendorID,
		ApprovalStatus: ApprovalApproved,
		IsApproved:     true,
	}
	for _, url := range p.Photos {
		h.Photos = append(h.Photos, HallPhoto{URL: url})
	}
	for _, pk := range p.Packages {
		h.Packages = append(h.Packages, Package{PackageName: pk.PackageName, Price: pk.Price, Details: pk.Details})
	}
	for _, r := range p.FunctionalRooms {
		h.FunctionalRooms = append(h.FunctionalRooms, FunctionalRoom{
			RoomType:    r.RoomType,
			Price:       r.Price,
			Description: r.Description,
			Amenities:   r.Amenities,
		})
	}
	for _, r := range p.GuestRooms {
		h.GuestRooms = append(h.GuestRooms, GuestRoom{
			RoomCategory: r.RoomCategory,
			Price:        r.Price,
			BedType:      r.BedType,
			MaxOccupancy: r.MaxOccupancy,
			Description:  r.Description,
			Amenities:    r.Amenities,
		})
	}
	return h
}
