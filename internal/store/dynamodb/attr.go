package dynamodb

import (
	"fmt"
	"strconv"

	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// marshalItem converts a normalized record into a DynamoDB item. The generic
// attributevalue marshaler would render decimal.Decimal as a struct, so the
// conversion is done by hand over the same tagged tree the classifier emits:
// object | array | string | int64 | decimal | bool | null.
func marshalItem(record map[string]any) (map[string]ddbtypes.AttributeValue, error) {
	item := make(map[string]ddbtypes.AttributeValue, len(record))
	for k, v := range record {
		av, err := toAttribute(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		item[k] = av
	}
	return item, nil
}

func toAttribute(v any) (ddbtypes.AttributeValue, error) {
	switch val := v.(type) {
	case nil:
		return &ddbtypes.AttributeValueMemberNULL{Value: true}, nil
	case string:
		return &ddbtypes.AttributeValueMemberS{Value: val}, nil
	case bool:
		return &ddbtypes.AttributeValueMemberBOOL{Value: val}, nil
	case int64:
		return &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(val, 10)}, nil
	case decimal.Decimal:
		return &ddbtypes.AttributeValueMemberN{Value: val.String()}, nil
	case map[string]any:
		m := make(map[string]ddbtypes.AttributeValue, len(val))
		for k, elem := range val {
			av, err := toAttribute(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = av
		}
		return &ddbtypes.AttributeValueMemberM{Value: m}, nil
	case []any:
		l := make([]ddbtypes.AttributeValue, 0, len(val))
		for i, elem := range val {
			av, err := toAttribute(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			l = append(l, av)
		}
		return &ddbtypes.AttributeValueMemberL{Value: l}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
