package model

import "time"

// MaxImagesPerCar caps uploads per listing.
const MaxImagesPerCar = 10

// CarImage is a stored photo of a listing. Multiple images may carry the
// main flag; the read side resolves that with MainImage.
type CarImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CarID     uint      `json:"car_id" gorm:"not null;index"`
	Path      string    `json:"path" gorm:"size:255;not null"`
	IsMain    bool      `json:"is_main" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// MainImage picks the canonical display image: the earliest image flagged
// main, else the earliest image, else nil. Pure selection over the image
// set, nothing is stored.
func MainImage(images []CarImage) *CarImage {
	var first, firstMain *CarImage
	for i := range images {
		img := &images[i]
		if first == nil || earlier(img, first) {
			first = img
		}
		if img.IsMain && (firstMain == nil || earlier(img, firstMain)) {
			firstMain = img
		}
	}
	if firstMain != nil {
		return firstMain
	}
	return first
}

func earlier(a, b *CarImage) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
