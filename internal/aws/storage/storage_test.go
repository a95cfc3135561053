package storage

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/freddys-cards/cardbattles/internal/domains/entities"
	"github.com/freddys-cards/cardbattles/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item = map[string]types.AttributeValue

// fakeDynamo keeps items per table and answers the narrow set of requests
// the client makes.
type fakeDynamo struct {
	tables  map[string][]item
	queries []*dynamodb.QueryInput
	err     error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string][]item{}}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func matches(it, key item) bool {
	for k, v := range key {
		if str(it[k]) != str(v) {
			return false
		}
	}
	return true
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, it := range f.tables[*in.TableName] {
		if matches(it, in.Key) {
			return &dynamodb.GetItemOutput{Item: it}, nil
		}
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tables[*in.TableName] = append(f.tables[*in.TableName], in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	kept := f.tables[*in.TableName][:0]
	for _, it := range f.tables[*in.TableName] {
		if !matches(it, in.Key) {
			kept = append(kept, it)
		}
	}
	f.tables[*in.TableName] = kept
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, in)
	matchId := str(in.ExpressionAttributeValues[":matchId"])

	var found []item
	for _, it := range f.tables[*in.TableName] {
		if str(it["MatchId"]) == matchId {
			found = append(found, it)
		}
	}
	sortKey := "SortKey"
	if in.IndexName != nil {
		sortKey = "Id"
	}
	asc := in.ScanIndexForward == nil || *in.ScanIndexForward
	sort.Slice(found, func(i, j int) bool {
		if asc {
			return str(found[i][sortKey]) < str(found[j][sortKey])
		}
		return str(found[i][sortKey]) > str(found[j][sortKey])
	})
	if in.ExclusiveStartKey != nil {
		for i, it := range found {
			if str(it[sortKey]) == str(in.ExclusiveStartKey[sortKey]) {
				found = found[i+1:]
				break
			}
		}
	}
	out := &dynamodb.QueryOutput{Items: found}
	if in.Limit != nil && int(*in.Limit) < len(found) {
		out.Items = found[:*in.Limit]
		last := out.Items[len(out.Items)-1]
		out.LastEvaluatedKey = item{"MatchId": last["MatchId"], sortKey: last[sortKey]}
	}
	return out, nil
}

func TestRecordAndFetchMatchEvents(t *testing.T) {
	ctx := context.Background()
	db := newFakeDynamo()
	client := NewClient(db, Tables{MatchEvents: "Events"})
	clock := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	client.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	require.NoError(t, client.RecordEvent(ctx, "m1", match.EventRoundStarted, match.RoundStartedPayload{Round: 1, Chooser: "P1"}))
	require.NoError(t, client.RecordEvent(ctx, "m1", match.EventAttributeChosen, match.AttributeChosenPayload{Round: 1, Chooser: "P1", Attribute: match.Power}))
	require.NoError(t, client.RecordEvent(ctx, "m2", match.EventRoundStarted, nil))
	require.Len(t, db.tables["Events"], 3)

	events, lastKey, err := client.FetchMatchEvents(ctx, "m1", nil, 1, true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "round_started", events[0].Kind)
	assert.JSONEq(t, `{"round":1,"chooser":"P1","turnIndex":0}`, events[0].Payload)
	require.NotNil(t, lastKey)

	events, lastKey, err = client.FetchMatchEvents(ctx, "m1", MatchEventStartKey("m1", str(lastKey["SortKey"])), 10, true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "attribute_chosen", events[0].Kind)
	assert.Nil(t, lastKey)

	events, _, err = client.FetchMatchEvents(ctx, "m1", nil, 10, false)
	require.NoError(t, err)
	assert.Equal(t, "attribute_chosen", events[0].Kind)

	q := db.queries[0]
	assert.Equal(t, "Events", *q.TableName)
	assert.Equal(t, "MatchId = :matchId", *q.KeyConditionExpression)
}

func TestRecordEventError(t *testing.T) {
	db := newFakeDynamo()
	db.err = errors.New("throttled")
	client := NewClient(db, Tables{})
	err := client.RecordEvent(context.Background(), "m1", match.EventCardPlayed, nil)
	assert.ErrorContains(t, err, "failed to put match event")
}

func TestMatchResults(t *testing.T) {
	ctx := context.Background()
	db := newFakeDynamo()
	client := NewClient(db, Tables{})

	_, err := client.GetMatchResult(ctx, "m1")
	assert.ErrorIs(t, err, ErrMatchResultNotFound)

	result := entities.MatchResult{
		MatchId: "m1",
		Rounds:  8,
		Winner:  "P2",
		Players: []entities.PlayerResult{
			{PlayerId: "P2", Name: "Vanessa", Avatar: "bonnie", Score: 5, Position: 1},
			{PlayerId: "P1", Name: "Mike", Avatar: "freddy", Score: 3, Position: 2},
		},
		EndedAt: time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC),
	}
	require.NoError(t, client.PutMatchResult(ctx, result))
	assert.Contains(t, db.tables, "MatchResults")

	got, err := client.GetMatchResult(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, result, got)
}

func TestConnections(t *testing.T) {
	ctx := context.Background()
	db := newFakeDynamo()
	client := NewClient(db, Tables{})

	for _, conn := range []entities.Connection{
		{Id: "c1", MatchId: "m1", PlayerId: "P1"},
		{Id: "c2", MatchId: "m1", PlayerId: "P2"},
		{Id: "c3", MatchId: "m2", PlayerId: "P9"},
	} {
		require.NoError(t, client.PutConnection(ctx, conn))
	}

	conns, err := client.FetchMatchConnections(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, "P2", conns[1].PlayerId)
	assert.Equal(t, aws.String("MatchIndex"), db.queries[0].IndexName)

	require.NoError(t, client.DeleteConnection(ctx, "c1"))
	conns, err = client.FetchMatchConnections(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "c2", conns[0].Id)
}
