package query

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/database/mongoclient"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain"
)

const (
	queryMaxTime     = 20 * time.Second
	maxTransactions  = 10
	slowLogThreshold = 500 * time.Millisecond
)

var (
	timeNow = time.Now
	met     = metrics.New("query")
)

type impl struct {
	client     *mongoclient.Client
	checkIndex bool
	tokens     chan int
}

// New initializes an impl
func New(client *mongoclient.Client, checkIndex bool) Mongo {
	tokens := make(chan int, maxTransactions)
	for i := 0; i < maxTransactions; i++ {
		tokens <- i + 1
	}
	return &impl{
		client:     client,
		checkIndex: checkIndex,
		tokens:     tokens,
	}
}

func (im *impl) logerr(context ctx.Ctx, msg string, err error) {
	if _, ok := err.(topology.ConnectionError); ok {
		met.BumpSum("conn.err", 1.0)
	}
	context.WithFields(log.Fields{"err": err}).Error(msg)
}

func (im *impl) collection(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) Insert(context ctx.Ctx, table domain.Table, insert interface{}) error {
	defer met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(context, string(table), "insert", nil, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
	})

	if _, err := im.collection(table).InsertOne(context, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(context, "Insert: InsertOne failed", err)
		return err
	}

	return nil
}

func (im *impl) FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(context, string(table), "findone", query, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
		"query": query,
	})

	if err := im.checkQueryIndex(context, string(table), "find", bson.E{Key: "filter", Value: query}); err != nil {
		im.logerr(context, "checkQueryIndex failed", err)
		return err
	}

	findOneOpts := options.FindOne().SetMaxTime(queryMaxTime)
	res := im.collection(table).FindOne(context, query, findOneOpts)

	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		im.logerr(context, "FindOne: FindOne error", err)
		return err
	}
	return nil
}

func (im *impl) Count(context ctx.Ctx, table domain.Table, selector interface{}) (n int, err error) {
	defer met.BumpTime("time", "func", "count", "table", string(table)).End()
	defer slowLog(context, string(table), "count", selector, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
	})

	if err := im.checkQueryIndex(context, string(table), "count", bson.E{Key: "query", Value: selector}); err != nil {
		im.logerr(context, "checkQueryIndex failed", err)
		return 0, err
	}

	opts := options.Count().SetMaxTime(queryMaxTime)
	count, err := im.collection(table).CountDocuments(context, selector, opts)
	if err != nil {
		im.logerr(context, "Count: CountDocuments failed", err)
		return 0, err
	}
	return int(count), nil
}

func getSortOption(sortStrings ...string) bson.D {
	res := bson.D{}
	for _, sort := range sortStrings {
		if sort == "" {
			continue
		}
		if sort[0] == '-' {
			res = append(res, bson.E{Key: sort[1:], Value: -1})
		} else {
			res = append(res, bson.E{Key: sort, Value: 1})
		}
	}

	return res
}

func (im *impl) search(context ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error {
	defer met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(context, string(table), "search", query, sortFields)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table": table,
		"query": query,
	})

	if err := im.checkQueryIndex(context, string(table), "find", bson.E{Key: "filter", Value: query}); err != nil {
		im.logerr(context, "checkQueryIndex failed", err)
		return err
	}

	findOpts := options.Find().SetMaxTime(queryMaxTime)
	findOpts.SetLimit(int64(limit)).SetSkip(int64(offset))
	if sortOpt := getSortOption(sortFields...); len(sortOpt) > 0 {
		findOpts.SetSort(sortOpt)
	}
	cursor, err := im.collection(table).Find(context, query, findOpts)
	if err != nil {
		im.logerr(context, "Search: Find failed", err)
		return err
	}
	defer cursor.Close(context)

	if err := cursor.All(context, results); err != nil {
		im.logerr(context, "Search: cursor.All failed", err)
		return err
	}
	return nil
}

func (im *impl) Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	return im.search(context, table, offset, limit, []string{sort}, query, results)
}

func (im *impl) SearchNSorts(context ctx.Ctx, table domain.Table, offset, limit int, sortFields []string, query, results interface{}) error {
	return im.search(context, table, offset, limit, sortFields, query, results)
}

func (im *impl) Patch(context ctx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error {
	defer met.BumpTime("time", "func", "update", "table", string(table)).End()
	defer slowLog(context, string(table), "update", selector, nil)()

	o := &patchOp{}
	for _, opt := range ops {
		opt(o)
	}

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
		"update":   update,
	})

	var err error
	var updateRes *mongo.UpdateResult
	updater := bson.M{"$set": update}
	if o.patchMany {
		updateRes, err = im.collection(table).UpdateMany(context, selector, updater)
		if err != nil {
			im.logerr(context, "Patch: UpdateMany failed", err)
			return err
		}
	} else {
		updateRes, err = im.collection(table).UpdateOne(context, selector, updater)
		if err != nil {
			im.logerr(context, "Patch: UpdateOne failed", err)
			return err
		}
	}

	if updateRes.MatchedCount == 0 && updateRes.ModifiedCount == 0 && updateRes.UpsertedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (im *impl) CustomPatch(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error {
	defer met.BumpTime("time", "func", "customupdate", "table", string(table)).End()
	defer slowLog(context, string(table), "customupdate", selector, nil)()

	context = ctx.WithValues(context, map[string]interface{}{
		"table":    table,
		"selector": selector,
		"update":   update,
	})

	updateOpts := options.Update().SetUpsert(upsert)
	updateRes, err := im.collection(table).UpdateOne(context, selector, update, updateOpts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(context, "CustomPatch: UpdateOne failed", err)
		return err
	}

	if updateRes.MatchedCount == 0 && updateRes.ModifiedCount == 0 && updateRes.UpsertedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (im *impl) EnsureIndexes(context ctx.Ctx, table domain.Table, indexes ...Index) error {
	if len(indexes) == 0 {
		return nil
	}

	models := make([]mongo.IndexModel, 0, len(indexes))
	for _, idx := range indexes {
		models = append(models, mongo.IndexModel{
			Keys:    getSortOption(idx.Keys...),
			Options: options.Index().SetUnique(idx.Unique),
		})
	}

	if _, err := im.collection(table).Indexes().CreateMany(context, models); err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "EnsureIndexes: CreateMany failed", err)
		return err
	}
	return nil
}

func (im *impl) RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error {
	if mongo.SessionFromContext(context) != nil {
		return run(context)
	}

	// explain command is not support in transaction
	if im.checkIndex {
		return run(context)
	}

	var token int
	select {
	case <-context.Done():
		return context.Err()
	case token = <-im.tokens:
	}
	defer func() {
		im.tokens <- token
	}()

	defer met.BumpTime("time", "func", "transaction").End()

	session, err := im.client.StartSession()
	if err != nil {
		im.logerr(context, "StartSession failed", err)
		return err
	}
	defer session.EndSession(context)

	fn := func(sessCtx mongo.SessionContext) (interface{}, error) {
		c := ctx.Ctx{
			Context: sessCtx,
			Logger:  context.Logger,
		}
		return nil, run(c)
	}
	_, err = session.WithTransaction(context, fn)
	return err
}

func slowLog(context ctx.Ctx, table, action string, query interface{}, sort interface{}) func() {
	start := timeNow()

	return func() {
		elapsed := time.Since(start)
		if elapsed >= slowLogThreshold {
			met.BumpSum("slowlog", 1, "table", table, "action", action)
			context.WithFields(log.Fields{
				"table":        table,
				"action":       action,
				"startTimeStr": start,
				"startTime":    start.Unix(),
				"durationMs":   elapsed.Milliseconds(),
				"query":        query,
				"sort":         sort,
			}).Warn("mongo slowlog")
		}
	}
}

func (im *impl) checkQueryIndex(context ctx.Ctx, table string, action string, query bson.E) error {
	if !im.checkIndex {
		return nil
	}
	// reference: https://docs.mongodb.com/manual/reference/command/explain/
	res := im.client.Database(im.client.DbName).RunCommand(context, bson.D{
		bson.E{
			Key: "explain",
			Value: bson.D{
				bson.E{Key: action, Value: table},
				query,
			},
		},
		bson.E{
			Key:   "verbosity",
			Value: "queryPlanner",
		},
	})

	var m bson.M
	if err := res.Decode(&m); err != nil {
		context.WithField("err", err).Warn("checkQueryIndex decode failed")
		met.BumpSum("checkQueryIndex.err", float64(1))
		return nil
	}

	// We only check if `COLLSCAN` is in `m` as string since the data structure
	// of `m` is not consistent for all environment. It's quite difficult to use
	// struct to marshal `m`.
	if strings.Contains(fmt.Sprintf("%v", m), "COLLSCAN") {
		context.WithField("query", query).Warn("COLLSCAN")
		return ErrCollScan
	}
	return nil
}
