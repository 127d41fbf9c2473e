package repository

import (
	"sort"
	"strconv"
	"sync"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/txn"
	"github.com/x-xyz/gomarket/domain"
	"github.com/x-xyz/gomarket/domain/market"
)

type holdingKey struct {
	key   market.TokenKey
	owner domain.Address
}

type approvalKey struct {
	asset    domain.Address
	owner    domain.Address
	operator domain.Address
}

type memoryRepo struct {
	mu        sync.Mutex
	contracts map[domain.Address]market.AssetContract
	holdings  map[holdingKey]uint64
	approvals map[approvalKey]bool
	royalties map[market.TokenKey]market.RoyaltyInfo
}

func NewMemoryRepo() market.AssetRepo {
	return &memoryRepo{
		contracts: make(map[domain.Address]market.AssetContract),
		holdings:  make(map[holdingKey]uint64),
		approvals: make(map[approvalKey]bool),
		royalties: make(map[market.TokenKey]market.RoyaltyInfo),
	}
}

func (im *memoryRepo) FindContract(c ctx.Ctx, asset domain.Address) (*market.AssetContract, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	contract, ok := im.contracts[asset.ToLower()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &contract, nil
}

func (im *memoryRepo) InsertContract(c ctx.Ctx, contract *market.AssetContract) error {
	address := contract.Address.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.contracts[address]; ok {
		return domain.ErrConflict
	}
	stored := *contract
	stored.Address = address
	im.contracts[address] = stored

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		delete(im.contracts, address)
	})
	return nil
}

func (im *memoryRepo) NextTokenId(c ctx.Ctx, asset domain.Address) (domain.TokenId, error) {
	address := asset.ToLower()

	im.mu.Lock()
	defer im.mu.Unlock()
	contract, ok := im.contracts[address]
	if !ok {
		return "", domain.ErrNotFound
	}
	contract.Minted++
	im.contracts[address] = contract

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		contract := im.contracts[address]
		contract.Minted--
		im.contracts[address] = contract
	})
	return domain.TokenId(strconv.FormatUint(contract.Minted, 10)), nil
}

func (im *memoryRepo) FindHoldings(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) ([]market.Holding, error) {
	key := market.NewTokenKey(asset, tokenId)

	im.mu.Lock()
	res := []market.Holding{}
	for k, balance := range im.holdings {
		if k.key == key && balance > 0 {
			res = append(res, market.Holding{Asset: key.Asset, TokenId: key.TokenId, Owner: k.owner, Balance: balance})
		}
	}
	im.mu.Unlock()

	sort.Slice(res, func(i, j int) bool { return res[i].Owner < res[j].Owner })
	return res, nil
}

func (im *memoryRepo) Balance(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address) (uint64, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.holdings[holdingKey{market.NewTokenKey(asset, tokenId), owner.ToLower()}], nil
}

func (im *memoryRepo) AddBalance(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, owner domain.Address, delta int64) error {
	k := holdingKey{market.NewTokenKey(asset, tokenId), owner.ToLower()}

	im.mu.Lock()
	defer im.mu.Unlock()
	prev := im.holdings[k]
	if delta < 0 && uint64(-delta) > prev {
		return market.ErrNotOwner
	}
	next := uint64(int64(prev) + delta)
	if next == 0 {
		delete(im.holdings, k)
	} else {
		im.holdings[k] = next
	}

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		if prev == 0 {
			delete(im.holdings, k)
		} else {
			im.holdings[k] = prev
		}
	})
	return nil
}

func (im *memoryRepo) IsApprovedForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address) (bool, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.approvals[approvalKey{asset.ToLower(), owner.ToLower(), operator.ToLower()}], nil
}

func (im *memoryRepo) SetApprovalForAll(c ctx.Ctx, asset domain.Address, owner, operator domain.Address, approved bool) error {
	k := approvalKey{asset.ToLower(), owner.ToLower(), operator.ToLower()}

	im.mu.Lock()
	defer im.mu.Unlock()
	prev := im.approvals[k]
	im.approvals[k] = approved

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		im.approvals[k] = prev
	})
	return nil
}

func cloneRoyalty(r market.RoyaltyInfo) market.RoyaltyInfo {
	r.Collaborators = append([]market.Collaborator(nil), r.Collaborators...)
	return r
}

func (im *memoryRepo) SaveRoyalty(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId, royalty *market.RoyaltyInfo) error {
	key := market.NewTokenKey(asset, tokenId)

	im.mu.Lock()
	defer im.mu.Unlock()
	prev, existed := im.royalties[key]
	im.royalties[key] = cloneRoyalty(*royalty)

	txn.OnRollback(c, func() {
		im.mu.Lock()
		defer im.mu.Unlock()
		if existed {
			im.royalties[key] = prev
		} else {
			delete(im.royalties, key)
		}
	})
	return nil
}

func (im *memoryRepo) FindRoyalty(c ctx.Ctx, asset domain.Address, tokenId domain.TokenId) (*market.RoyaltyInfo, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	r, ok := im.royalties[market.NewTokenKey(asset, tokenId)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r = cloneRoyalty(r)
	return &r, nil
}
