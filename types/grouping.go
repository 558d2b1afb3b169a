package types

import (
	"fmt"
	"strings"
)

type GroupingMethod uint8

const (
	GM_None GroupingMethod = iota
	GM_PercentualThresholding
	GM_Equidistant
	GM_KmeansClustering
)

var GroupingMethodNameMap = map[string]GroupingMethod{
	"none":                    GM_None,
	"percentual_thresholding": GM_PercentualThresholding,
	"percentual":              GM_PercentualThresholding,
	"threshold":               GM_PercentualThresholding,
	"thresholding":            GM_PercentualThresholding,
	"equidistant":             GM_Equidistant,
	"equidistant_histogram":   GM_Equidistant,
	"kmeans_clustering":       GM_KmeansClustering,
	"kmeans":                  GM_KmeansClustering,
	"clustering":              GM_KmeansClustering,
	"adaptive_clustering":     GM_KmeansClustering,
}

func (gm GroupingMethod) String() string {
	switch gm {
	case GM_None:
		return "None"
	case GM_PercentualThresholding:
		return "Percentual_Thresholding"
	case GM_Equidistant:
		return "Equidistant"
	case GM_KmeansClustering:
		return "Kmeans_Clustering"
	}
	return fmt.Sprintf("GroupingMethod(%d)", uint8(gm))
}

// NewGroupingMethod is case insensitive and treats '-' and ' ' like '_'
func NewGroupingMethod(label string) (gm GroupingMethod, err error) {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	var ok bool
	if gm, ok = GroupingMethodNameMap[key]; !ok {
		err = fmt.Errorf("unknown grouping method [%s], should be one of: None, Percentual_Thresholding, Equidistant, Kmeans_Clustering",
			label)
	}
	return
}
