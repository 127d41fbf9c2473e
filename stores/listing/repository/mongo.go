package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/database/mongoclient"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
	"github.com/x-xyz/gomarket/service/query"
)

// Indexes of the listings table
var Indexes = []query.Index{
	{Table: domain.TableListings, Keys: []string{"venue", "asset", "tokenId", "seller"}},
}

type auctionDoc struct {
	HighestBidder domain.Address       `bson:"highestBidder"`
	HighestBid    primitive.Decimal128 `bson:"highestBid"`
	EndTime       time.Time            `bson:"endTime"`
	Extensions    int                  `bson:"extensions"`
	Ended         bool                 `bson:"ended"`
}

type listingDoc struct {
	Venue           market.Venue         `bson:"venue"`
	Asset           domain.Address       `bson:"asset"`
	TokenId         domain.TokenId       `bson:"tokenId"`
	Seller          domain.Address       `bson:"seller"`
	TokenType       domain.TokenType     `bson:"tokenType"`
	Quantity        uint64               `bson:"quantity"`
	UnitPrice       primitive.Decimal128 `bson:"unitPrice"`
	IsSecondarySale bool                 `bson:"isSecondarySale"`
	ListedAt        time.Time            `bson:"listedAt"`
	Auction         *auctionDoc          `bson:"auction,omitempty"`
}

func toDoc(l *market.Listing) (*listingDoc, error) {
	price, err := mongoclient.ToDecimal128(domain.CloneBigInt(l.UnitPrice))
	if err != nil {
		return nil, err
	}
	doc := &listingDoc{
		Venue:           l.Venue,
		Asset:           l.Asset.ToLower(),
		TokenId:         l.TokenId,
		Seller:          l.Seller.ToLower(),
		TokenType:       l.TokenType,
		Quantity:        l.Quantity,
		UnitPrice:       price,
		IsSecondarySale: l.IsSecondarySale,
		ListedAt:        l.ListedAt,
	}
	if a := l.Auction; a != nil {
		bid, err := mongoclient.ToDecimal128(domain.CloneBigInt(a.HighestBid))
		if err != nil {
			return nil, err
		}
		doc.Auction = &auctionDoc{
			HighestBidder: a.HighestBidder.ToLower(),
			HighestBid:    bid,
			EndTime:       a.EndTime,
			Extensions:    a.Extensions,
			Ended:         a.Ended,
		}
	}
	return doc, nil
}

func (d *listingDoc) toListing() (*market.Listing, error) {
	price, err := mongoclient.FromDecimal128(d.UnitPrice)
	if err != nil {
		return nil, err
	}
	l := &market.Listing{
		Venue:           d.Venue,
		Asset:           d.Asset,
		TokenId:         d.TokenId,
		Seller:          d.Seller,
		TokenType:       d.TokenType,
		Quantity:        d.Quantity,
		UnitPrice:       price,
		IsSecondarySale: d.IsSecondarySale,
		ListedAt:        d.ListedAt,
	}
	if a := d.Auction; a != nil {
		bid, err := mongoclient.FromDecimal128(a.HighestBid)
		if err != nil {
			return nil, err
		}
		l.Auction = &market.AuctionState{
			HighestBidder: a.HighestBidder,
			HighestBid:    bid,
			EndTime:       a.EndTime,
			Extensions:    a.Extensions,
			Ended:         a.Ended,
		}
	}
	return l, nil
}

type mongoRepo struct {
	q query.Mongo
}

func NewMongoRepo(q query.Mongo) market.ListingRepo {
	return &mongoRepo{q}
}

func selector(id market.ListingId) bson.M {
	return bson.M{
		"venue":   id.Venue,
		"asset":   id.Asset.ToLower(),
		"tokenId": id.TokenId,
		"seller":  id.Seller.ToLower(),
	}
}

func (im *mongoRepo) makeQuery(opts ...market.ListingFindAllOptionsFunc) (bson.M, market.ListingFindAllOptions, error) {
	options, err := market.GetListingFindAllOptions(opts...)
	if err != nil {
		return nil, options, err
	}
	query := bson.M{}

	if options.Venue != nil {
		query["venue"] = *options.Venue
	}

	if options.Asset != nil {
		query["asset"] = options.Asset.ToLower()
	}

	if options.TokenId != nil {
		query["tokenId"] = *options.TokenId
	}

	if options.Seller != nil {
		query["seller"] = options.Seller.ToLower()
	}

	return query, options, nil
}

func (im *mongoRepo) FindAll(ctx ctx.Ctx, opts ...market.ListingFindAllOptionsFunc) ([]market.Listing, error) {
	query, options, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("im.makeQuery failed")
		return nil, err
	}

	offset, limit := 0, 0
	if options.Offset != nil && options.Limit != nil {
		offset, limit = *options.Offset, *options.Limit
	}

	docs := []listingDoc{}
	if err := im.q.Search(ctx, domain.TableListings, offset, limit, "listedAt", query, &docs); err != nil {
		ctx.WithFields(log.Fields{"err": err, "query": query}).Error("q.Search failed")
		return nil, err
	}

	res := make([]market.Listing, 0, len(docs))
	for i := range docs {
		l, err := docs[i].toListing()
		if err != nil {
			ctx.WithFields(log.Fields{"err": err, "asset": docs[i].Asset, "tokenId": docs[i].TokenId}).Error("toListing failed")
			return nil, err
		}
		res = append(res, *l)
	}
	return res, nil
}

func (im *mongoRepo) FindOne(ctx ctx.Ctx, id market.ListingId) (*market.Listing, error) {
	doc := listingDoc{}
	if err := im.q.FindOne(ctx, domain.TableListings, selector(id), &doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id.String()}).Error("q.FindOne failed")
		return nil, err
	}
	return doc.toListing()
}

func (im *mongoRepo) Insert(ctx ctx.Ctx, listing *market.Listing) error {
	doc, err := toDoc(listing)
	if err != nil {
		return err
	}
	if err := im.q.Insert(ctx, domain.TableListings, doc); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": listing.ToId().String()}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *mongoRepo) Update(ctx ctx.Ctx, listing *market.Listing) error {
	doc, err := toDoc(listing)
	if err != nil {
		return err
	}
	if err := im.q.Patch(ctx, domain.TableListings, selector(listing.ToId()), doc); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": listing.ToId().String()}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (im *mongoRepo) Remove(ctx ctx.Ctx, id market.ListingId) error {
	if err := im.q.Remove(ctx, domain.TableListings, selector(id)); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "id": id.String()}).Error("q.Remove failed")
		return err
	}
	return nil
}
