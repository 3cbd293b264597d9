package query

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/database/mongoclient"
	"github.com/x-xyz/saleengine/domain"
)

var (
	mockCTX = ctx.Background()
)

const (
	mockTable = domain.Table("query_test")
	dbName    = "testdb"
)

type querySuite struct {
	suite.Suite
	im       *impl
	mongoURI string
}

type dummy struct {
	Dummy  string `bson:"dummy"`
	Update string `bson:"updatekey"`
	N      int    `bson:"n"`
}

func (q *querySuite) SetupSuite() {
	q.mongoURI = os.Getenv("MONGO_TEST_URI")
}

func (q *querySuite) SetupTest() {
	q.im = New(mongoclient.MustConnectMongoClient(mongoclient.Config{
		URI:        q.mongoURI,
		AuthDBName: "admin",
		DBName:     dbName,
		SetSafe:    true,
	}), false).(*impl)
	q.Require().NoError(q.im.collection(mockTable).Drop(mockCTX))
}

func (q *querySuite) TestFindOne() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{"v1", "u1", 1}))

	result := &dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "v1"}, result))
	q.Equal(dummy{"v1", "u1", 1}, *result)

	err := q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "v2"}, result)
	q.Equal(ErrNotFound, err)
}

func (q *querySuite) TestInsertShouldFailWithDuplicateKey() {
	q.Require().NoError(q.im.EnsureIndexes(mockCTX, mockTable, Index{Keys: []string{"dummy"}, Unique: true}))
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{"v1", "u1", 1}))

	err := q.im.Insert(mockCTX, mockTable, dummy{"v1", "u2", 2})
	q.Equal(ErrDuplicateKey, err)
}

func (q *querySuite) TestCountAndSearch() {
	for i, d := range []string{"a", "b", "c"} {
		q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{d, "x", i}))
	}

	n, err := q.im.Count(mockCTX, mockTable, bson.M{"updatekey": "x"})
	q.Require().NoError(err)
	q.Equal(3, n)

	res := []dummy{}
	q.Require().NoError(q.im.Search(mockCTX, mockTable, 0, 2, "-n", bson.M{}, &res))
	q.Require().Len(res, 2)
	q.Equal("c", res[0].Dummy)
	q.Equal("b", res[1].Dummy)

	res = []dummy{}
	q.Require().NoError(q.im.SearchNSorts(mockCTX, mockTable, 1, 0, []string{"updatekey", "n"}, bson.M{}, &res))
	q.Require().Len(res, 2)
	q.Equal("b", res[0].Dummy)
}

func (q *querySuite) TestPatch() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{"a", "x", 1}))
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{"b", "x", 1}))

	q.Require().NoError(q.im.Patch(mockCTX, mockTable, bson.M{"n": 1}, bson.M{"updatekey": "y"}, WithPatchMany(true)))
	n, err := q.im.Count(mockCTX, mockTable, bson.M{"updatekey": "y"})
	q.Require().NoError(err)
	q.Equal(2, n)

	err = q.im.Patch(mockCTX, mockTable, bson.M{"n": 7}, bson.M{"updatekey": "z"})
	q.Equal(ErrNotFound, err)
}

func (q *querySuite) TestCustomPatchCompareAndSet() {
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{"a", "x", 1}))

	sel := bson.M{"dummy": "a", "n": 1}
	upd := bson.M{"$set": bson.M{"updatekey": "y"}, "$inc": bson.M{"n": 1}}
	q.Require().NoError(q.im.CustomPatch(mockCTX, mockTable, sel, upd, false))

	// stale version no longer matches
	q.Equal(ErrNotFound, q.im.CustomPatch(mockCTX, mockTable, sel, upd, false))

	result := &dummy{}
	q.Require().NoError(q.im.FindOne(mockCTX, mockTable, bson.M{"dummy": "a"}, result))
	q.Equal(2, result.N)
}

func (q *querySuite) TestRunWithTransaction() {
	// create the collection outside, mongo < 4.4 refuses it inside a transaction
	q.Require().NoError(q.im.Insert(mockCTX, mockTable, dummy{"seed", "x", 0}))

	errAbort := errors.New("abort")
	err := q.im.RunWithTransaction(mockCTX, func(c ctx.Ctx) error {
		if err := q.im.Insert(c, mockTable, dummy{"a", "x", 1}); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return q.im.RunWithTransaction(c, func(c ctx.Ctx) error {
			if err := q.im.Insert(c, mockTable, dummy{"b", "x", 1}); err != nil {
				return err
			}
			return errAbort
		})
	})
	q.Equal(errAbort, err)

	n, err := q.im.Count(mockCTX, mockTable, bson.M{"n": 1})
	q.Require().NoError(err)
	q.Equal(0, n)

	q.Require().NoError(q.im.RunWithTransaction(mockCTX, func(c ctx.Ctx) error {
		return q.im.Insert(c, mockTable, dummy{"a", "x", 1})
	}))
	n, err = q.im.Count(mockCTX, mockTable, bson.M{"n": 1})
	q.Require().NoError(err)
	q.Equal(1, n)
}

func TestQuerySuite(t *testing.T) {
	if os.Getenv("MONGO_TEST_URI") == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	suite.Run(t, new(querySuite))
}

func TestGetSortOption(t *testing.T) {
	assert.Equal(t, bson.D{
		{Key: "amount", Value: -1},
		{Key: "createdAt", Value: 1},
	}, getSortOption("-amount", "", "createdAt"))
	assert.Equal(t, bson.D{}, getSortOption())
}
