package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"tailorbook/pkg/domain"
)

// mutation is printed for write commands; warnings are non-blocking rule results.
type mutation struct {
	Data     any                `json:"data"`
	Warnings []domain.Violation `json:"warnings,omitempty"`
}

func newMutation(data any, res domain.Result) mutation {
	return mutation{Data: data, Warnings: res.Violations}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func require(fs *flag.FlagSet, values map[string]string) error {
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			_, _ = fmt.Fprintf(fs.Output(), "%s: -%s is required\n", fs.Name(), name)
			return errUsage
		}
	}
	return nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func runClients(_ context.Context, a *app, args []string) (any, error) {
	fs := a.flags("clients")
	q := fs.String("q", "", "case-insensitive name filter")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.svc.SearchClients(*q), nil
}

func runClient(_ context.Context, a *app, args []string) (any, error) {
	fs := a.flags("client")
	id := fs.String("id", "", "client id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := require(fs, map[string]string{"id": *id}); err != nil {
		return nil, err
	}
	client, ok := a.svc.GetClient(*id)
	if !ok {
		return nil, domain.ErrNotFound{Entity: domain.EntityClient, ID: *id}
	}
	return client, nil
}

func runAddClient(ctx context.Context, a *app, args []string) (any, error) {
	fs := a.flags("add-client")
	var in domain.ClientInput
	fs.StringVar(&in.FullName, "name", "", "full name")
	fs.StringVar(&in.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&in.Address, "address", "", "address")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	client, res, err := a.svc.AddClient(ctx, in)
	if err != nil {
		return nil, err
	}
	return newMutation(client, res), nil
}

func runAddOrder(ctx context.Context, a *app, args []string) (any, error) {
	fs := a.flags("add-order")
	clientID := fs.String("client", "", "client id")
	var in domain.OrderInput
	fs.StringVar(&in.OrderName, "name", "", "order name")
	fs.StringVar(&in.DateOrdered, "ordered", "", "order date (YYYY-MM-DD)")
	fs.StringVar(&in.DateDelivery, "delivery", "", "delivery date (YYYY-MM-DD)")
	fs.StringVar(&in.Notes, "notes", "", "free-form notes")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := require(fs, map[string]string{"client": *clientID}); err != nil {
		return nil, err
	}
	order, res, err := a.svc.AddOrderToClient(ctx, *clientID, in)
	if err != nil {
		return nil, err
	}
	return newMutation(order, res), nil
}

func runSetStatus(ctx context.Context, a *app, args []string) (any, error) {
	fs := a.flags("set-status")
	clientID := fs.String("client", "", "client id")
	orderID := fs.String("order", "", "order id")
	raw := fs.String("status", "", "registered, in_progress, testing, on_pause or delivered")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := require(fs, map[string]string{"client": *clientID, "order": *orderID, "status": *raw}); err != nil {
		return nil, err
	}
	status, err := domain.ParseOrderStatus(*raw)
	if err != nil {
		return nil, err
	}
	order, res, err := a.svc.UpdateOrderStatus(ctx, *clientID, *orderID, status)
	if err != nil {
		return nil, err
	}
	return newMutation(order, res), nil
}

func runSetMeasurements(ctx context.Context, a *app, args []string) (any, error) {
	fs := a.flags("set-measurements")
	clientID := fs.String("client", "", "client id")
	var m domain.Measurements
	fs.Float64Var(&m.Shoulder, "shoulder", 0, "shoulder")
	fs.Float64Var(&m.Chest, "chest", 0, "chest")
	fs.Float64Var(&m.Hips, "hips", 0, "hips")
	fs.Float64Var(&m.Waist, "waist", 0, "waist")
	fs.Float64Var(&m.TopLength, "top-length", 0, "top length")
	fs.Float64Var(&m.TrouserLength, "trouser-length", 0, "trouser length")
	fs.Float64Var(&m.LegRound, "leg-round", 0, "leg round")
	fs.Float64Var(&m.ArmRound, "arm-round", 0, "arm round")
	fs.Float64Var(&m.Wrist, "wrist", 0, "wrist")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := require(fs, map[string]string{"client": *clientID}); err != nil {
		return nil, err
	}
	client, res, err := a.svc.UpdateClientMeasurements(ctx, *clientID, m)
	if err != nil {
		return nil, err
	}
	return newMutation(client, res), nil
}

func runCalendar(_ context.Context, a *app, args []string) (any, error) {
	fs := a.flags("calendar")
	date := fs.String("date", "", "list orders due on this date (YYYY-MM-DD)")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *date == "" {
		return a.svc.Calendar().Markers(), nil
	}
	if !domain.ValidDate(*date) {
		_, _ = fmt.Fprintf(a.stderr, "calendar: -date %q is not YYYY-MM-DD\n", *date)
		return nil, errUsage
	}
	return a.svc.DueOn(*date), nil
}

func runDesigns(_ context.Context, a *app, args []string) (any, error) {
	fs := a.flags("designs")
	tag := fs.String("tag", "", "case-insensitive tag filter")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.svc.SearchDesigns(*tag), nil
}

func runInspirations(_ context.Context, a *app, args []string) (any, error) {
	fs := a.flags("inspirations")
	tag := fs.String("tag", "", "case-insensitive tag filter")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return a.svc.SearchInspirations(*tag), nil
}

func runAddDesign(ctx context.Context, a *app, args []string) (any, error) {
	return addGalleryItem(ctx, a, "add-design", domain.GalleryDesigns, args)
}

func runAddInspiration(ctx context.Context, a *app, args []string) (any, error) {
	return addGalleryItem(ctx, a, "add-inspiration", domain.GalleryInspirations, args)
}

func addGalleryItem(ctx context.Context, a *app, name string, g domain.Gallery, args []string) (any, error) {
	fs := a.flags(name)
	image := fs.String("image", "", "image uri")
	upload := fs.String("upload", "", "local image file to store in the image store")
	tags := fs.String("tags", "", "comma-separated tags")
	description := fs.String("description", "", "optional description")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if (*image == "") == (*upload == "") {
		_, _ = fmt.Fprintf(a.stderr, "%s: exactly one of -image or -upload is required\n", name)
		return nil, errUsage
	}
	if *upload != "" {
		link, err := uploadFile(ctx, a, g, *upload)
		if err != nil {
			return nil, err
		}
		*image = link
	}
	in := domain.GalleryItemInput{ImageURL: *image, Tags: splitTags(*tags), Description: *description}
	var (
		item domain.GalleryItem
		res  domain.Result
		err  error
	)
	if g == domain.GalleryDesigns {
		item, res, err = a.svc.AddDesign(ctx, in)
	} else {
		item, res, err = a.svc.AddInspiration(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	return newMutation(item, res), nil
}

func uploadFile(ctx context.Context, a *app, g domain.Gallery, path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()
	return a.svc.UploadGalleryImage(ctx, g, filepath.Base(path), f, mime.TypeByExtension(filepath.Ext(path)))
}

type removal struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func runRemoveDesign(ctx context.Context, a *app, args []string) (any, error) {
	return removeGalleryItem(ctx, a, "remove-design", domain.GalleryDesigns, args)
}

func runRemoveInspiration(ctx context.Context, a *app, args []string) (any, error) {
	return removeGalleryItem(ctx, a, "remove-inspiration", domain.GalleryInspirations, args)
}

func removeGalleryItem(ctx context.Context, a *app, name string, g domain.Gallery, args []string) (any, error) {
	fs := a.flags(name)
	id := fs.String("id", "", "item id")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if err := require(fs, map[string]string{"id": *id}); err != nil {
		return nil, err
	}
	remove := a.svc.RemoveDesign
	if g == domain.GalleryInspirations {
		remove = a.svc.RemoveInspiration
	}
	removed, _, err := remove(ctx, *id)
	if err != nil {
		return nil, err
	}
	return removal{ID: *id, Removed: removed}, nil
}

func runCompany(ctx context.Context, a *app, args []string) (any, error) {
	fs := a.flags("company")
	name := fs.String("name", "", "new company name")
	logo := fs.String("logo", "", "new logo uri")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *name == "" && *logo == "" {
		return a.svc.CompanyInfo(), nil
	}
	info := a.svc.CompanyInfo()
	if *name != "" {
		info.Name = *name
	}
	if *logo != "" {
		info.Logo = *logo
	}
	updated, res, err := a.svc.UpdateCompanyInfo(ctx, info)
	if err != nil {
		return nil, err
	}
	return newMutation(updated, res), nil
}
