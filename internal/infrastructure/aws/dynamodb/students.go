package dynamodb

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"sumo-go/internal/student"
	"sumo-go/internal/student/ranking"
)

// Item attribute names
const (
	attrID         = "id"
	attrName       = "name"
	attrPoints     = "points"
	attrLevel      = "level"
	attrClassName  = "class_name"
	attrRank       = "rank"
	attrViolations = "violations"
)

func (s *StudentTable) Find(ctx context.Context, id string) (*student.Student, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.name),
		Key: map[string]types.AttributeValue{
			attrID: &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, student.ErrStudentNotFound
	}

	return decodeStudent(id, out.Item)
}

func decodeStudent(id string, item map[string]types.AttributeValue) (*student.Student, error) {
	pointsAttr, ok := item[attrPoints]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	points, err := decodeInt(pointsAttr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", student.ErrInvalidRecord, err)
	}

	st := &student.Student{
		ID:         id,
		Name:       stringAttr(item[attrName]),
		Points:     points,
		Level:      stringAttr(item[attrLevel]),
		ClassName:  stringAttr(item[attrClassName]),
		Violations: stringListAttr(item[attrViolations]),
	}

	if rankAttr, ok := item[attrRank]; ok {
		if rank, err := decodeInt(rankAttr); err == nil {
			st.Rank = &rank
		}
	}

	return st, nil
}

func decodeInt(av types.AttributeValue) (int, error) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("%w: not a number attribute", ranking.ErrInvalidPoints)
	}
	f, err := strconv.ParseFloat(n.Value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ranking.ErrInvalidPoints, n.Value)
	}
	return int(f), nil
}

func stringAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// stringListAttr accepts either a list of strings or a string set
func stringListAttr(av types.AttributeValue) []string {
	var out []string
	switch v := av.(type) {
	case *types.AttributeValueMemberL:
		for _, elem := range v.Value {
			if s := stringAttr(elem); s != "" {
				out = append(out, s)
			}
		}
	case *types.AttributeValueMemberSS:
		out = append(out, v.Value...)
	}
	return out
}
