// Package mediatek is the dispatch core of the media catalog.
//
// A QueryDispatcher receives (operation, table, fields) requests and routes
// them to a Handler. Books, dvds and periodicals are composite entities
// written across several tables in one transaction; lookup tables and the
// copies and orders of a document have read-only listings; any other table
// goes to the generic single-table handler.
//
//	session, err := database.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	d, err := mediatek.New(session.Adapter)
//	if err != nil {
//		return err
//	}
//	rows, err := d.Select(ctx, "livre", nil)
package mediatek
