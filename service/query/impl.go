package query

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/database/mongoclient"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain"
)

const (
	queryMaxTime    = 20 * time.Second
	slowThresholdMs = int64(500)
	txnSlots        = 10
)

var (
	timeNow = time.Now
	met     = metrics.New("query")
)

type impl struct {
	client *mongoclient.Client
	tokens chan int
}

// New initializes an impl
func New(client *mongoclient.Client) Mongo {
	tokens := make(chan int, txnSlots)
	for i := 0; i < txnSlots; i++ {
		tokens <- i + 1
	}
	return &impl{
		client: client,
		tokens: tokens,
	}
}

func (im *impl) coll(table domain.Table) *mongo.Collection {
	return im.client.Database(im.client.DbName).Collection(string(table))
}

func (im *impl) logerr(context ctx.Ctx, msg string, err error) {
	met.BumpSum("err", 1, "msg", msg)
	context.WithFields(log.Fields{"err": err}).Error(msg)
}

func (im *impl) Insert(context ctx.Ctx, table domain.Table, insert interface{}) error {
	defer met.BumpTime("time", "func", "insert", "table", string(table)).End()
	defer slowLog(context, string(table), "insert", nil, "")()

	if _, err := im.coll(table).InsertOne(context, insert); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(ctx.WithValue(context, "table", table), "Insert: InsertOne failed", err)
		return err
	}
	return nil
}

func (im *impl) FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error {
	defer met.BumpTime("time", "func", "findone", "table", string(table)).End()
	defer slowLog(context, string(table), "findone", query, "")()

	res := im.coll(table).FindOne(context, query, options.FindOne().SetMaxTime(queryMaxTime))
	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		im.logerr(ctx.WithValues(context, map[string]interface{}{"table": table, "query": query}), "FindOne: FindOne error", err)
		return err
	}
	return nil
}

func (im *impl) Count(context ctx.Ctx, table domain.Table, selector interface{}) (int, error) {
	defer met.BumpTime("time", "func", "count", "table", string(table)).End()
	defer slowLog(context, string(table), "count", selector, "")()

	n, err := im.coll(table).CountDocuments(context, selector, options.Count().SetMaxTime(queryMaxTime))
	if err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "Count: CountDocuments failed", err)
		return 0, err
	}
	return int(n), nil
}

func (im *impl) Upsert(context ctx.Ctx, table domain.Table, selector, update interface{}) error {
	defer met.BumpTime("time", "func", "upsert", "table", string(table)).End()
	defer slowLog(context, string(table), "upsert", selector, "")()

	if _, err := im.coll(table).ReplaceOne(context, selector, update, options.Replace().SetUpsert(true)); err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "Upsert: ReplaceOne failed", err)
		return err
	}
	return nil
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

func (im *impl) Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	defer met.BumpTime("time", "func", "search", "table", string(table)).End()
	defer slowLog(context, string(table), "search", query, sort)()

	findOpts := options.Find().SetMaxTime(queryMaxTime).SetSkip(int64(offset))
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	if sortOpt := getSortOption(sort); len(sortOpt) > 0 {
		findOpts.SetSort(sortOpt)
	}

	cursor, err := im.coll(table).Find(context, query, findOpts)
	if err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "Search: Find failed", err)
		return err
	}
	defer cursor.Close(context)

	if err := cursor.All(context, results); err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "Search: cursor.All failed", err)
		return err
	}
	return nil
}

func (im *impl) Remove(context ctx.Ctx, table domain.Table, selector interface{}) error {
	defer met.BumpTime("time", "func", "remove", "table", string(table)).End()
	defer slowLog(context, string(table), "remove", selector, "")()

	res, err := im.coll(table).DeleteOne(context, selector)
	if err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "Remove: DeleteOne failed", err)
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) Patch(context ctx.Ctx, table domain.Table, selector, update interface{}, ops ...PatchOp) error {
	defer met.BumpTime("time", "func", "patch", "table", string(table)).End()
	defer slowLog(context, string(table), "patch", selector, "")()

	o := &patchOp{}
	for _, opt := range ops {
		opt(o)
	}

	var res *mongo.UpdateResult
	var err error
	updater := bson.M{"$set": update}
	if o.patchMany {
		res, err = im.coll(table).UpdateMany(context, selector, updater)
	} else {
		res, err = im.coll(table).UpdateOne(context, selector, updater)
	}
	if err != nil {
		im.logerr(ctx.WithValue(context, "table", table), "Patch: Update failed", err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) CustomPatch(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool) error {
	defer met.BumpTime("time", "func", "custompatch", "table", string(table)).End()
	defer slowLog(context, string(table), "custompatch", selector, "")()

	res, err := im.coll(table).UpdateOne(context, selector, update, options.Update().SetUpsert(upsert))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(ctx.WithValue(context, "table", table), "CustomPatch: UpdateOne failed", err)
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (im *impl) FindOneAndUpdate(context ctx.Ctx, table domain.Table, selector, update bson.M, upsert bool, result interface{}) error {
	defer met.BumpTime("time", "func", "findoneandupdate", "table", string(table)).End()
	defer slowLog(context, string(table), "findoneandupdate", selector, "")()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(upsert)
	res := im.coll(table).FindOneAndUpdate(context, selector, update, opts)
	if err := res.Decode(result); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		im.logerr(ctx.WithValue(context, "table", table), "FindOneAndUpdate failed", err)
		return err
	}
	return nil
}

func (im *impl) EnsureIndexes(context ctx.Ctx, indexes ...Index) error {
	for _, idx := range indexes {
		keys := bson.D{}
		for _, k := range idx.Keys {
			keys = append(keys, bson.E{Key: k, Value: 1})
		}
		model := mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
		if _, err := im.coll(idx.Table).Indexes().CreateOne(context, model); err != nil {
			im.logerr(ctx.WithValue(context, "table", idx.Table), "EnsureIndexes: CreateOne failed", err)
			return err
		}
	}
	return nil
}

func (im *impl) RunWithTransaction(context ctx.Ctx, run func(ctx.Ctx) error) error {
	defer met.BumpTime("time", "func", "transaction").End()

	var token int
	select {
	case <-context.Done():
		return context.Err()
	case token = <-im.tokens:
	}
	defer func() { im.tokens <- token }()

	session, err := im.client.StartSession()
	if err != nil {
		im.logerr(context, "StartSession failed", err)
		return err
	}
	defer session.EndSession(context)

	_, err = session.WithTransaction(context, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, run(ctx.Rebase(context, sessCtx))
	})
	return err
}

func slowLog(context ctx.Ctx, table, action string, query interface{}, sort string) func() {
	start := timeNow()
	return func() {
		elapsedMs := time.Since(start).Milliseconds()
		if elapsedMs >= slowThresholdMs {
			met.BumpSum("slowlog", 1, "table", table, "action", action)
			context.WithFields(log.Fields{
				"table":      table,
				"action":     action,
				"startTime":  start.Unix(),
				"durationMs": elapsedMs,
				"query":      query,
				"sort":       sort,
			}).Warn("mongo slowlog")
		}
	}
}
