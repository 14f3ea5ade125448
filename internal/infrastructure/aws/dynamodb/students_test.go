package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sumo-go/internal/student"
	"sumo-go/internal/student/ranking"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if out, ok := args.Get(0).(*dynamodb.GetItemOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPI) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, params)
	if out, ok := args.Get(0).(*dynamodb.CreateTableOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func keyIs(id string) any {
	return mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		key, ok := in.Key[attrID].(*types.AttributeValueMemberS)
		return ok && key.Value == id && *in.TableName == "students"
	})
}

func TestFind(t *testing.T) {
	api := new(MockAPI)
	table := NewStudentTable(api, "students")
	ctx := context.Background()

	api.On("GetItem", ctx, keyIs("1001")).Return(&dynamodb.GetItemOutput{
		Item: map[string]types.AttributeValue{
			attrID:        &types.AttributeValueMemberS{Value: "1001"},
			attrName:      &types.AttributeValueMemberS{Value: "Abdullah"},
			attrPoints:    &types.AttributeValueMemberN{Value: "49"},
			attrLevel:     &types.AttributeValueMemberS{Value: "Silver"},
			attrClassName: &types.AttributeValueMemberS{Value: "3/2"},
			attrRank:      &types.AttributeValueMemberN{Value: "2"},
			attrViolations: &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: "late"},
			}},
		},
	}, nil)

	st, err := table.Find(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Abdullah", st.Name)
	assert.Equal(t, 49, st.Points)
	assert.Equal(t, "Silver", st.Level)
	assert.Equal(t, "3/2", st.ClassName)
	require.NotNil(t, st.Rank)
	assert.Equal(t, 2, *st.Rank)
	assert.Equal(t, []string{"late"}, st.Violations)

	api.AssertExpectations(t)
}

func TestFindNotFound(t *testing.T) {
	api := new(MockAPI)
	table := NewStudentTable(api, "students")
	ctx := context.Background()

	api.On("GetItem", ctx, keyIs("404")).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := table.Find(ctx, "404")
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestFindInvalidPoints(t *testing.T) {
	tests := []struct {
		name   string
		points types.AttributeValue
	}{
		{"Negative", &types.AttributeValueMemberN{Value: "-4"}},
		{"Fraction", &types.AttributeValueMemberN{Value: "1.5"}},
		{"String attribute", &types.AttributeValueMemberS{Value: "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeStudent("1", map[string]types.AttributeValue{
				attrName:   &types.AttributeValueMemberS{Value: "A"},
				attrPoints: tt.points,
			})
			assert.ErrorIs(t, err, student.ErrInvalidRecord)
			assert.ErrorIs(t, err, ranking.ErrInvalidPoints)
		})
	}
}

func TestFindSourceError(t *testing.T) {
	api := new(MockAPI)
	table := NewStudentTable(api, "students")
	ctx := context.Background()

	api.On("GetItem", ctx, keyIs("1")).Return(nil, errors.New("throttled"))

	_, err := table.Find(ctx, "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, student.ErrStudentNotFound)
}

func TestCreateTable(t *testing.T) {
	api := new(MockAPI)
	table := NewStudentTable(api, "students")
	ctx := context.Background()

	api.On("CreateTable", ctx, mock.AnythingOfType("*dynamodb.CreateTableInput")).
		Return(nil, &types.ResourceInUseException{}).Once()
	assert.NoError(t, table.CreateTable(ctx))

	api.On("CreateTable", ctx, mock.AnythingOfType("*dynamodb.CreateTableInput")).
		Return(nil, errors.New("denied")).Once()
	assert.Error(t, table.CreateTable(ctx))
}
