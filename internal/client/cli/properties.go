package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

func (a *App) Properties(ctx context.Context) error {
	list, err := a.svc.Properties.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No properties yet. Use 'property add'.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDRESS\tTYPE\tLANDLORD")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Address, p.PropertyType, p.LandlordEmail)
	}
	return tw.Flush()
}

// AddProperty runs the property form and selects the new property.
func (a *App) AddProperty(ctx context.Context) error {
	var p models.Property
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Address", &p.Address},
		{"Property type (apartment, house, ...)", &p.PropertyType},
		{"Unit number (optional)", &p.UnitNumber},
		{"Landlord name", &p.LandlordName},
		{"Landlord email", &p.LandlordEmail},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	deposit, err := getSimpleText(a.reader, "Deposit amount (optional)", a.out)
	if err != nil {
		return err
	}
	if deposit != "" {
		if p.DepositAmount, err = strconv.ParseFloat(deposit, 64); err != nil {
			return fmt.Errorf("deposit amount %q: %w", deposit, err)
		}
	}

	created, err := a.svc.Properties.Create(ctx, p)
	if err != nil {
		return err
	}
	a.selectProperty(created.ID)
	fmt.Fprintf(a.out, "Property %s created and selected\n", created.ID)
	return nil
}

func (a *App) UseProperty(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("use <property-id>")
	}
	p, err := a.svc.Properties.Get(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	a.selectProperty(p.ID)
	fmt.Fprintf(a.out, "Selected %s\n", p.Address)
	return a.Rooms(ctx)
}

func (a *App) DeleteProperty(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("property delete <property-id>")
	}
	ok, err := Confirm(a.reader, "Delete property "+args[0]+" and its reports?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.svc.Properties.Delete(ctx, models.ID(args[0])); err != nil {
		return err
	}
	a.mu.Lock()
	if a.propertyID == models.ID(args[0]) {
		a.propertyID, a.roomID = "", ""
	}
	a.mu.Unlock()
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) selectProperty(id models.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.propertyID != id {
		a.roomID = ""
	}
	a.propertyID = id
}

func (a *App) currentProperty() (models.ID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.propertyID == "" {
		return "", errNoProperty
	}
	return a.propertyID, nil
}

func (a *App) currentRoom() (models.ID, models.ID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.propertyID == "" {
		return "", "", errNoProperty
	}
	if a.roomID == "" {
		return "", "", errNoRoom
	}
	return a.propertyID, a.roomID, nil
}
