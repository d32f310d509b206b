package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/pageza/recipebox/backend/internal/model"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoStore
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoStore keeps recipes in a DynamoDB table with partition key "id"
type DynamoStore struct {
	client DynamoDBAPI
	table  string
}

// NewDynamoStore creates a store over the given table
func NewDynamoStore(client DynamoDBAPI, table string) *DynamoStore {
	if table == "" {
		table = DefaultTableName
	}
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		model.FieldID: &types.AttributeValueMemberS{Value: id},
	}
}

// Put writes the item unconditionally
func (s *DynamoStore) Put(ctx context.Context, recipe *model.Recipe) error {
	item, err := attributevalue.MarshalMap(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe %s: %w", recipe.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put recipe %s: %w", recipe.ID, err)
	}
	return nil
}

// Get reads the item with the given id
func (s *DynamoStore) Get(ctx context.Context, id string) (*model.Recipe, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var recipe model.Recipe
	if err := attributevalue.UnmarshalMap(out.Item, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %s: %w", id, err)
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = model.StringList{}
	}
	return &recipe, nil
}

// Scan reads the whole table, following pagination until the last page
func (s *DynamoStore) Scan(ctx context.Context) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipes: %w", err)
		}

		var batch []model.Recipe
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipes: %w", err)
		}
		for i := range batch {
			if batch[i].Ingredients == nil {
				batch[i].Ingredients = model.StringList{}
			}
		}
		recipes = append(recipes, batch...)
	}
	return recipes, nil
}

// Update sets title and ingredients, conditional on the item existing
func (s *DynamoStore) Update(ctx context.Context, id string, title string, ingredients []string) error {
	values, err := attributevalue.MarshalMap(map[string]interface{}{
		":title":       title,
		":ingredients": ingredients,
		":updated_at":  nowFunc(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal update for recipe %s: %w", id, err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 s.key(id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #title = :title, #ingredients = :ingredients, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":          model.FieldID,
			"#title":       model.FieldTitle,
			"#ingredients": model.FieldIngredients,
			"#updated_at":  model.FieldUpdatedAt,
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update recipe %s: %w", id, err)
	}
	return nil
}

// Delete removes the item; DynamoDB deletes are idempotent
func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}

// Ping describes the table to verify credentials and existence
func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	return err
}
