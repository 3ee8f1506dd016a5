package qdrant

import (
	"fmt"
	"strconv"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// extractVectorDetails returns the dimension and distance of the default
// vector, or of the named vector when name is set. Missing nested fields
// yield (0, "").
func extractVectorDetails(info *qdrant.CollectionInfo, name string) (int, string) {
	if info == nil ||
		info.Config == nil ||
		info.Config.Params == nil ||
		info.Config.Params.VectorsConfig == nil ||
		info.Config.Params.VectorsConfig.Config == nil {
		return 0, ""
	}

	switch cfg := info.Config.Params.VectorsConfig.Config.(type) {
	case *qdrant.VectorsConfig_Params:
		return int(cfg.Params.GetSize()), cfg.Params.GetDistance().String()
	case *qdrant.VectorsConfig_ParamsMap:
		if p, ok := cfg.ParamsMap.GetMap()[name]; ok {
			return int(p.GetSize()), p.GetDistance().String()
		}
	}
	return 0, ""
}

func derefUint64(v *uint64) uint64 {
	if v != nil {
		return *v
	}
	return 0
}

// pointIDString renders numeric ids in decimal and UUIDs verbatim.
func pointIDString(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// parsePointID is the inverse of pointIDString.
func parsePointID(s string) *qdrant.PointId {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	return qdrant.NewID(s)
}

// denseVector picks the default or named dense vector of a point.
func denseVector(v *qdrant.VectorsOutput, name string) []float32 {
	if v == nil {
		return nil
	}
	var out *qdrant.VectorOutput
	if name == "" {
		out = v.GetVector()
	} else if named := v.GetVectors(); named != nil {
		out = named.GetVectors()[name]
	}
	if out == nil {
		return nil
	}
	if dense := out.GetDense(); dense != nil {
		return dense.GetData()
	}
	return out.GetData()
}

// convertPayload converts a protobuf payload to plain Go values.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = convertValue(v)
	}
	return result
}

func convertValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = convertValue(item)
		}
		return items
	}
	return nil
}
